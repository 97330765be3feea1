package text

import "golang.org/x/image/font/gofont/goregular"

// BuiltinFontName is the registration name of the bundled typeface.
const BuiltinFontName = "goregular"

// RegisterBuiltin loads the bundled Go Regular typeface into r, so labels
// render out of the box on devices with no font assets. If the registry is
// empty it becomes the default face.
func RegisterBuiltin(r *Registry) (*Face, error) {
	return r.Register(BuiltinFontName, goregular.TTF)
}
