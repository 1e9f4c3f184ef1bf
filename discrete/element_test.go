package discrete

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/ddc/utils"
)

func TestTags(t *testing.T) {
	assert.Equal(t, 0, tagsXY.Index(tagX))
	assert.Equal(t, 1, tagsXY.Index(tagY))
	assert.Equal(t, -1, tagsXY.Index(tagZ))
	assert.True(t, tagsXY.SameSet(tagsYX))
	assert.False(t, tagsXY.Equal(tagsYX))
	assert.Equal(t, "[X, Y]", tagsXY.String())
	assert.Equal(t, Tags{tagY}, tagsXY.Without(tagX))

	if utils.ChecksEnabled {
		assert.Panics(t, func() { NewTags(tagX, tagY, tagX) })

		// Literal tag lists skip NewTags
		dup := Tags{tagX, tagX}
		assert.Panics(t, func() { NewElement(dup, 0, 0) })
		assert.Panics(t, func() { NewVector(dup, 3, 4) })
		assert.Panics(t, func() { Elem[DDimX](1).As(dup) })
		assert.Panics(t, func() {
			NewDomain(NewElement(dup, 0, 0), NewVector(dup, 3, 4))
		})
		assert.NotPanics(t, func() { NewElement(tagsXY, 0, 0).As(tagsYX) })
	}
}

func TestElement_Arithmetic(t *testing.T) {
	ix := Elem[DDimX](3)
	iy := Elem[DDimY](7)
	ixy := JoinElements(ix, iy)
	require.Equal(t, 2, ixy.Rank())
	assert.Equal(t, 3, ixy.Uid(tagX))
	assert.Equal(t, 7, ixy.Uid(tagY))
	assert.Equal(t, "(X=3, Y=7)", ixy.String())

	moved := ixy.Add(NewVector(tagsXY, 1, -2))
	assert.Equal(t, 4, moved.Uid(tagX))
	assert.Equal(t, 5, moved.Uid(tagY))

	// A vector over a subset of the tags only moves those dimensions
	movedX := ixy.Add(Vect[DDimX](10))
	assert.Equal(t, 13, movedX.Uid(tagX))
	assert.Equal(t, 7, movedX.Uid(tagY))

	assert.True(t, moved.Sub(NewVector(tagsYX, -2, 1)).Equal(ixy))
	assert.True(t, moved.Diff(ixy).Equal(NewVector(tagsXY, 1, -2)))
	assert.Equal(t, 6, ixy.Shift(tagY, -1).Uid(tagY))
}

func TestElement_SelectAndCompare(t *testing.T) {
	ixy := NewElement(tagsXY, 2, 9)
	iyx := ixy.Select(tagY, tagX)
	assert.Equal(t, 9, iyx.UidAt(0))
	assert.Equal(t, 2, iyx.UidAt(1))
	// Equality is by tag, not by position
	assert.True(t, ixy.Equal(iyx))
	assert.Equal(t, 2, ixy.Select(tagX).Value())

	assert.True(t, ixy.LessEq(NewElement(tagsXY, 2, 9)))
	assert.True(t, ixy.LessEq(NewElement(tagsYX, 10, 3)))
	assert.False(t, ixy.Less(NewElement(tagsXY, 2, 10)))
	assert.True(t, ixy.Less(NewElement(tagsXY, 3, 10)))
	assert.False(t, ixy.Equal(Elem[DDimX](2)))

	if utils.ChecksEnabled {
		assert.Panics(t, func() { ixy.Uid(tagZ) })
		assert.Panics(t, func() { ixy.Value() })
		assert.Panics(t, func() { JoinElements(ixy, Elem[DDimX](0)) })
	}
}

func TestVector(t *testing.T) {
	v := NewVector(tagsXY, 3, 4)
	assert.Equal(t, 12, v.Product())
	assert.Equal(t, 1, NewVector(Tags{}).Product())
	assert.True(t, v.Neg().Add(v).Equal(Fill(tagsXY, 0)))
	assert.True(t, v.Scale(2).Equal(NewVector(tagsYX, 8, 6)))
	assert.Equal(t, 4, v.Get(tagY))
	assert.Equal(t, -1, v.GetOr(tagZ, -1))
	assert.Equal(t, "(Y=4, X=3)", v.As(tagsYX).String())
	assert.True(t, JoinVectors(Vect[DDimX](3), Vect[DDimY](4)).Equal(v))
	assert.True(t, v.Sub(Vect[DDimY](4)).Equal(NewVector(tagsXY, 3, 0)))
}

func TestElement_Compare(t *testing.T) {
	assert.Equal(t, -1, Elem[DDimX](1).Compare(Elem[DDimX](2)))
	assert.Equal(t, 0, Elem[DDimX](2).Compare(Elem[DDimX](2)))
	assert.Equal(t, 1, Elem[DDimX](3).Compare(Elem[DDimX](2)))
	assert.True(t, LineDomain(tagY, 4, 2).Equal(DomainOf[DDimY](4, 2)))
}
