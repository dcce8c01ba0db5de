// Package forms ingests dropped-form payloads and drives form dragging
package forms

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/lixenwraith/gridscope/scene"
	"github.com/lixenwraith/gridscope/vmath"
)

var ErrInvalidForm = errors.New("invalid form payload")

// validate is a singleton validator instance
var validate = validator.New()

// HeightmapPayload carries pre-converted height samples in [0,1]
type HeightmapPayload struct {
	Width  int       `json:"width" yaml:"width" validate:"gt=0,lte=512"`
	Height int       `json:"height" yaml:"height" validate:"gt=0,lte=512"`
	Data   []float64 `json:"data" yaml:"data" validate:"required,dive,gte=0,lte=1"`
}

// Payload is the typed drop message from drag-and-drop or file collaborators
type Payload struct {
	ID        string            `json:"id" yaml:"id" validate:"omitempty,max=128"`
	Kind      string            `json:"kind" yaml:"kind" validate:"required,oneof=rect triangle box heightmapMesh"`
	Heightmap *HeightmapPayload `json:"heightmap,omitempty" yaml:"heightmap,omitempty"`
	DropAt    *[3]float64       `json:"drop_at,omitempty" yaml:"drop_at,omitempty"`
}

// DecodeJSON parses and ingests a JSON payload
func DecodeJSON(data []byte) (scene.DroppedForm, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return scene.DroppedForm{}, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	return Ingest(p)
}

// Ingest validates p and converts it to a DroppedForm, assigning an id when absent
func Ingest(p Payload) (scene.DroppedForm, error) {
	if err := validate.Struct(&p); err != nil {
		return scene.DroppedForm{}, fmt.Errorf("%w: %s", ErrInvalidForm, describe(err))
	}

	kind := scene.FormKind(p.Kind)
	if kind == scene.FormHeightmap && p.Heightmap == nil {
		return scene.DroppedForm{}, fmt.Errorf("%w: heightmap: required for %s", ErrInvalidForm, kind)
	}

	f := scene.DroppedForm{ID: p.ID, Kind: kind}
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if hm := p.Heightmap; hm != nil {
		if len(hm.Data) != hm.Width*hm.Height {
			return scene.DroppedForm{}, fmt.Errorf("%w: heightmap: %d samples for %dx%d",
				ErrInvalidForm, len(hm.Data), hm.Width, hm.Height)
		}
		f.Heightmap = &scene.Heightmap{Width: hm.Width, Height: hm.Height, Data: slices.Clone(hm.Data)}
	}
	if p.DropAt != nil {
		at := vmath.V3F(p.DropAt[0], p.DropAt[1], p.DropAt[2])
		f.DropAt = &at
	}
	return f, nil
}

// describe reports the first failing field
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	e := verrs[0]
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: field is required", e.Field())
	case "oneof":
		return fmt.Sprintf("%s: must be one of [%s]", e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s: validation failed (%s=%s)", e.Field(), e.Tag(), e.Param())
	}
}
