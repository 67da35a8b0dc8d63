// Package emit turns a ComponentInterface into a Python module that calls
// the native library through ctypes.
//
// Emit builds the whole module as a pyast tree before anything is printed,
// so a single unsupported type or object shape means no output at all.
// Output is a pure function of the interface and Config: generating twice
// yields identical bytes, and concurrent calls share no state.
package emit
