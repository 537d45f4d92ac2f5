package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToRelative(t *testing.T) {
	assert.Equal(t, "src/app.py", ToRelative("/proj/src/app.py", "/proj"))
	assert.Equal(t, "app.py", ToRelative("/proj/app.py", "/proj/"))

	// Outside the root or unconvertible inputs pass through.
	assert.Equal(t, "/other/app.py", ToRelative("/other/app.py", "/proj"))
	assert.Equal(t, "already/relative.py", ToRelative("already/relative.py", "/proj"))
	assert.Equal(t, "", ToRelative("", "/proj"))
	assert.Equal(t, "/proj/app.py", ToRelative("/proj/app.py", ""))
}

func TestToAbsolute(t *testing.T) {
	assert.Equal(t, "/proj/src/app.py", ToAbsolute("src/app.py", "/proj"))
	assert.Equal(t, "/elsewhere/app.py", ToAbsolute("/elsewhere/app.py", "/proj"))
	assert.Equal(t, "", ToAbsolute("", "/proj"))
}

func TestRoundTrip(t *testing.T) {
	root := "/proj"
	abs := "/proj/pkg/util/helper.py"
	assert.Equal(t, abs, ToAbsolute(ToRelative(abs, root), root))
}
