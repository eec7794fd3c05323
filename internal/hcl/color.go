package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/glyphgrid/internal/ctxlog"
	"github.com/specialistvlad/glyphgrid/internal/picture"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// isExprDefined reports whether expr was actually written in the source. The
// decoder fills omitted optional attributes with zero-width placeholders.
func isExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	return r.End.Byte > r.Start.Byte
}

// decodeColor accepts "#rrggbb", "#rgb" or an [r, g, b] tuple of integers.
func decodeColor(ctx context.Context, val cty.Value) (picture.Color, error) {
	if val.IsNull() || !val.IsKnown() {
		return picture.Color{}, fmt.Errorf("color must not be null")
	}

	if val.Type() == cty.String {
		return picture.ParseHex(val.AsString())
	}

	list, err := convert.Convert(val, cty.List(cty.Number))
	if err != nil {
		return picture.Color{}, fmt.Errorf("color must be a hex string or an [r, g, b] list, got %s", val.Type().FriendlyName())
	}
	ctxlog.FromContext(ctx).Debug("Converted color tuple.", "from", val.Type().FriendlyName(), "to", list.Type().FriendlyName())

	var channels []int
	if err := gocty.FromCtyValue(list, &channels); err != nil {
		return picture.Color{}, fmt.Errorf("invalid color channels: %w", err)
	}
	if len(channels) != 3 {
		return picture.Color{}, fmt.Errorf("color list must have 3 channels, got %d", len(channels))
	}
	for i, ch := range channels {
		if ch < 0 || ch > 255 {
			return picture.Color{}, fmt.Errorf("color channel %d out of range: %d", i, ch)
		}
	}
	return picture.RGB(uint8(channels[0]), uint8(channels[1]), uint8(channels[2])), nil
}

// decodeColorExpr evaluates a single color attribute. An omitted attribute
// yields (nil, nil).
func decodeColorExpr(ctx context.Context, expr hcl.Expression) (*picture.Color, error) {
	if !isExprDefined(expr) {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	c, err := decodeColor(ctx, val)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// decodeColorList evaluates a list attribute whose elements are colors.
func decodeColorList(ctx context.Context, expr hcl.Expression) ([]picture.Color, error) {
	if !isExprDefined(expr) {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	ty := val.Type()
	if !ty.IsTupleType() && !ty.IsListType() && !ty.IsSetType() {
		return nil, fmt.Errorf("expected a list of colors, got %s", ty.FriendlyName())
	}

	var out []picture.Color
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		c, err := decodeColor(ctx, elem)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", len(out), err)
		}
		out = append(out, c)
	}
	return out, nil
}
