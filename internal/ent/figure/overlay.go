package figure

import (
	"fmt"
	"maps"
	"slices"
)

// Overlay draws the traces of top above the traces of base. Frames are
// joined by their position, both figures must have the same number of
// frames. Layout of base wins, colour axes of top are added if base does
// not have them.
func Overlay(base, top Figure) (Figure, error) {
	if len(base.Frames) != len(top.Frames) {
		return Figure{}, fmt.Errorf("%d vs %d frames: %w",
			len(base.Frames), len(top.Frames), ErrFrameMismatch)
	}

	res := Figure{
		Data:   append(slices.Clone(base.Data), top.Data...),
		Layout: maps.Clone(base.Layout),
		Frames: make([]Frame, len(base.Frames)),
	}
	for k, v := range top.Layout {
		if _, ok := res.Layout[k]; !ok {
			res.Layout[k] = v
		}
	}
	for i := range base.Frames {
		res.Frames[i] = Frame{
			Name: base.Frames[i].Name,
			Data: append(slices.Clone(base.Frames[i].Data), top.Frames[i].Data...),
		}
	}
	return res, nil
}
