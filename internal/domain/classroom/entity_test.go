package classroom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCode(t *testing.T) {
	seen := make(map[Code]bool)
	for i := 0; i < 100; i++ {
		c := NewCode()
		assert.True(t, c.IsValid(), "generated code %q should be valid", c)
		seen[c] = true
	}

	// 100 draws from a 36^6 space colliding down to a handful would mean the
	// generator is broken.
	assert.Greater(t, len(seen), 90)
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, Code("AB12CD"), NormalizeCode("ab12cd"))
	assert.Equal(t, Code("AB12CD"), NormalizeCode("  Ab12Cd "))
	assert.Equal(t, Code("AB12CD"), NormalizeCode("AB12CD"))
}

func TestCodeIsValid(t *testing.T) {
	assert.True(t, Code("AB12CD").IsValid())
	assert.True(t, Code("ZZZZZZ").IsValid())
	assert.True(t, Code("000000").IsValid())

	assert.False(t, Code("AB12C").IsValid())
	assert.False(t, Code("AB12CDE").IsValid())
	assert.False(t, Code("ab12cd").IsValid())
	assert.False(t, Code("AB12C!").IsValid())
	assert.False(t, Code("").IsValid())
}

func TestClassroomValidate(t *testing.T) {
	c := Classroom{ID: "c1", TeacherID: "t1", Name: "Period 3", Code: "AB12CD"}
	assert.NoError(t, c.Validate())

	tests := []struct {
		name   string
		mutate func(c *Classroom)
		want   error
	}{
		{"missing id", func(c *Classroom) { c.ID = "" }, ErrMissingOwner},
		{"missing teacher", func(c *Classroom) { c.TeacherID = "" }, ErrMissingOwner},
		{"blank name", func(c *Classroom) { c.Name = "  " }, ErrMissingName},
		{"bad code", func(c *Classroom) { c.Code = "nope" }, ErrBadCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room := c
			tt.mutate(&room)
			assert.ErrorIs(t, room.Validate(), tt.want)
		})
	}
}

func TestClassroomOwnedBy(t *testing.T) {
	c := Classroom{ID: "c1", TeacherID: "t1", Name: "Period 3", Code: "AB12CD"}

	assert.True(t, c.OwnedBy("t1"))
	assert.False(t, c.OwnedBy("t2"))
	assert.False(t, c.OwnedBy(""))
}
