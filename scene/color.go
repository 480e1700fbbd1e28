package scene

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/pixkernel"
)

// Color is an RGBA color in YAML. It decodes from a sequence of three or
// four channels in [0, 1] (alpha defaults to 1) or from a hex string such
// as "#ff000080". It always encodes as a four-element flow sequence.
type Color pixkernel.RGBA

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		rgba, err := pixkernel.ParseHex(value.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		*c = Color(rgba)
		return nil

	case yaml.SequenceNode:
		var ch []float32
		if err := value.Decode(&ch); err != nil {
			return err
		}
		switch len(ch) {
		case 3:
			*c = Color{R: ch[0], G: ch[1], B: ch[2], A: 1}
		case 4:
			*c = Color{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}
		default:
			return fmt.Errorf("line %d: color needs 3 or 4 channels, got %d", value.Line, len(ch))
		}
		return nil
	}
	return fmt.Errorf("line %d: color must be a sequence or a hex string", value.Line)
}

// MarshalYAML implements yaml.Marshaler.
func (c Color) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range [4]float32{c.R, c.G, c.B, c.A} {
		var item yaml.Node
		if err := item.Encode(v); err != nil {
			return nil, err
		}
		n.Content = append(n.Content, &item)
	}
	return n, nil
}

// RGB returns the color without alpha.
func (c Color) RGB() pixkernel.RGB { return pixkernel.RGBA(c).RGB() }
