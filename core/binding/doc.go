// Package binding implements the Binding Surface: a registry of
// named capability installers, applied in insertion order to build the
// script-facing "editor" global object. Installers can be reloaded
// individually or wholesale, and the registry records which installers are
// native (built into this binary) versus script-provided for introspection.
package binding
