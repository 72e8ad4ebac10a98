package stream

import "github.com/gogpu/canvas"

type resourceKind uint8

const (
	resourceNone resourceKind = iota
	resourceFont
	resourceTexture
	resourceGradient
)

type resourceKey struct {
	kind resourceKind
	id   uint64
}

// resourceRef extracts the resource a Draw instruction declares or uses,
// and whether that reference is a declaration (defines/redefines the
// resource's backing data) as opposed to a use (reads or mutates it by
// reference). Layer/Sprite selection is deliberately absent here: it
// never counts as a declaration site for this sweep (SPEC_FULL §13).
func resourceRef(d canvas.Draw) (key resourceKey, declares bool, ok bool) {
	switch v := d.(type) {
	case canvas.UseFontDefinitionOp:
		return resourceKey{resourceFont, uint64(v.Id)}, true, true
	case canvas.FontSizeOp:
		return resourceKey{resourceFont, uint64(v.Id)}, true, true
	case canvas.DrawGlyphsOp:
		return resourceKey{resourceFont, uint64(v.Font)}, false, true
	case canvas.LayoutTextOp:
		return resourceKey{resourceFont, uint64(v.Font)}, false, true

	case canvas.CreateTexture:
		return resourceKey{resourceTexture, uint64(v.Id)}, true, true
	case canvas.FreeTexture:
		return resourceKey{resourceTexture, uint64(v.Id)}, false, true
	case canvas.SetTextureBytes:
		return resourceKey{resourceTexture, uint64(v.Id)}, false, true
	case canvas.SetTextureFromSprite:
		return resourceKey{resourceTexture, uint64(v.Texture)}, false, true
	case canvas.CreateDynamicTexture:
		return resourceKey{resourceTexture, uint64(v.Texture)}, false, true
	case canvas.TextureFillTransparencyOp:
		return resourceKey{resourceTexture, uint64(v.Texture)}, false, true
	case canvas.FilterTextureOp:
		return resourceKey{resourceTexture, uint64(v.Texture)}, false, true
	case canvas.CopyTextureOp:
		return resourceKey{resourceTexture, uint64(v.Dst)}, false, true
	case canvas.SetFillTexture:
		return resourceKey{resourceTexture, uint64(v.Texture)}, false, true

	case canvas.CreateGradient:
		return resourceKey{resourceGradient, uint64(v.Id)}, true, true
	case canvas.GradientAddStop:
		return resourceKey{resourceGradient, uint64(v.Id)}, false, true
	case canvas.SetFillGradient:
		return resourceKey{resourceGradient, uint64(v.Gradient)}, false, true
	}
	return resourceKey{}, false, false
}

// sweepResources removes shadowed resource declarations: a declaration
// that is redeclared (or the log ends) without any intervening use is
// deleted, keeping only the most recent declaration for each resource
// (§4.1 "Resource sweep").
func sweepResources(entries []Entry) []Entry {
	pending := make(map[resourceKey]int)
	removed := make(map[int]bool)

	for i, e := range entries {
		key, declares, ok := resourceRef(e.Draw)
		if !ok {
			continue
		}
		if declares {
			if prev, has := pending[key]; has {
				removed[prev] = true
			}
			pending[key] = i
		} else {
			delete(pending, key)
		}
	}

	if len(removed) == 0 {
		return entries
	}
	out := make([]Entry, 0, len(entries)-len(removed))
	for i, e := range entries {
		if removed[i] {
			continue
		}
		out = append(out, e)
	}
	return out
}
