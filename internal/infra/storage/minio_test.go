package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "projects/p1/d1/report.pdf", ObjectKey("p1", "d1", "report.pdf"))
	assert.Equal(t, "projects/p1/d1/passwd", ObjectKey("p1", "d1", "../../etc/passwd"))
	assert.Equal(t, "projects/p1/d1/notes.txt", ObjectKey("p1", "d1", `C:\Users\me\notes.txt`))
	assert.Equal(t, "projects/p1/d1/upload", ObjectKey("p1", "d1", ""))
}
