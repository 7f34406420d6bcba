package remotegl

import (
	"fmt"
	"reflect"
)

// HostTag marks that a host connection has been installed into the App.
// Only one host can back an App.
type HostTag struct {
	Name string
}

// ensureSingleHost enforces the single host invariant.
// If a different host is already installed, it panics with a clear message.
func ensureSingleHost(app *App, name string) {
	if app == nil {
		panic("ensureSingleHost: app is nil")
	}
	t := reflect.TypeOf((*HostTag)(nil)).Elem()
	if res, ok := app.resources[t]; ok {
		if tag, ok2 := res.(*HostTag); ok2 {
			if tag.Name != name {
				app.Logger().Errorf("Multiple hosts installed: %s and %s", tag.Name, name)
				panic(fmt.Sprintf("Multiple hosts installed: %s and %s", tag.Name, name))
			}
			return
		}
		panic("HostTag resource present with unexpected type")
	}
	app.addResources(&HostTag{Name: name})
}
