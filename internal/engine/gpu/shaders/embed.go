// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// FlatVertexShader transforms world or object space positions.
//
//go:embed flat.vert
var FlatVertexShader string

// FlatFragmentShader fills with a uniform color, optionally shaded by the
// screen-space face normal.
//
//go:embed flat.frag
var FlatFragmentShader string
