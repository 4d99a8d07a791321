package reflectx

import "reflect"

// IsRefinedType reports whether t is exactly the type R. It is used to
// recognize framework-provided parameters (like context variables) in tool
// function signatures so they are not exposed in the generated schema.
func IsRefinedType[R any](t reflect.Type) bool {
	return t == reflect.TypeFor[R]()
}

// ResultImplements reports whether the first result of the function fn
// implements the interface type R. Tools whose first result is an agent are
// treated as handoff tools by the executor.
func ResultImplements[R any](fn any) bool {
	if !IsFunction(fn) {
		return false
	}
	typ := reflect.TypeOf(fn)
	if typ.NumOut() == 0 {
		return false
	}
	iface := reflect.TypeFor[R]()
	if iface.Kind() != reflect.Interface {
		return false
	}
	return typ.Out(0).Implements(iface)
}
