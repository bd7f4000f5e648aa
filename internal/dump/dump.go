// Package dump converts decoded models to and from editable text and CBOR.
//
// Every format keeps the chunk order witness and the nil versus empty
// distinction of chunk fields, so a model loaded from a dump encodes to the
// same MDX bytes it was dumped from.
package dump

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/mdxkit/core/errors"
	"github.com/FocuswithJustin/mdxkit/core/mdx"
	"github.com/FocuswithJustin/mdxkit/internal/validation"
)

// Format selects a dump encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatCBOR}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML, FormatCBOR:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errors.NewUnsupported("dump format", s)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch validation.FileTypeFromName(path) {
	case validation.FileTypeJSON:
		return FormatJSON, nil
	case validation.FileTypeYAML:
		return FormatYAML, nil
	case validation.FileTypeCBOR:
		return FormatCBOR, nil
	}
	return "", errors.NewUnsupported("dump format", path)
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	// Tags serialize as their text form.
	encOptions.TextMarshaler = cbor.TextMarshalerTextString
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("dump: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		TextUnmarshaler:  cbor.TextUnmarshalerTextString,
		MaxArrayElements: math.MaxInt32,
		MaxMapPairs:      math.MaxInt32,
	}.DecMode()
	if err != nil {
		panic("dump: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes m in format f.
func Marshal(m *mdx.Model, f Format) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch f {
	case FormatJSON:
		out, err = json.MarshalIndent(m, "", "  ")
		if err == nil {
			out = append(out, '\n')
		}
	case FormatYAML:
		out, err = marshalYAML(m)
	case FormatCBOR:
		out, err = encMode.Marshal(m)
	default:
		return nil, errors.NewUnsupported("dump format", string(f))
	}
	if err != nil {
		return nil, &errors.EncodeError{Format: strings.ToUpper(string(f)), Err: err}
	}
	return out, nil
}

// Unmarshal decodes a model dumped in format f.
func Unmarshal(data []byte, f Format) (*mdx.Model, error) {
	m := new(mdx.Model)
	var err error
	switch f {
	case FormatJSON:
		err = json.Unmarshal(data, m)
	case FormatYAML:
		err = unmarshalYAML(data, m)
	case FormatCBOR:
		err = decMode.Unmarshal(data, m)
	default:
		return nil, errors.NewUnsupported("dump format", string(f))
	}
	if err != nil {
		return nil, errors.NewParse(strings.ToUpper(string(f)), "", 0, err)
	}
	return m, nil
}

// marshalYAML goes through JSON so nil chunks stay absent and numbers keep
// their shortest float32 text.
func marshalYAML(m *mdx.Model) ([]byte, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	node, err := nodeFromJSON(dec)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func unmarshalYAML(data []byte, m *mdx.Model) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := jsonFromNode(&buf, &doc); err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), m)
}

// nodeFromJSON rebuilds the next JSON value read from dec as a YAML node,
// keeping object key order.
func nodeFromJSON(dec *json.Decoder) (*yaml.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			for dec.More() {
				key, err := dec.Token()
				if err != nil {
					return nil, err
				}
				val, err := nodeFromJSON(dec)
				if err != nil {
					return nil, err
				}
				n.Content = append(n.Content, scalar("!!str", key.(string)), val)
			}
			_, err = dec.Token()
			return n, err
		case '[':
			n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
			// Number vectors read better on one line.
			n.Style = yaml.FlowStyle
			for dec.More() {
				val, err := nodeFromJSON(dec)
				if err != nil {
					return nil, err
				}
				if val.Kind != yaml.ScalarNode {
					n.Style = 0
				}
				n.Content = append(n.Content, val)
			}
			_, err = dec.Token()
			return n, err
		}
		return nil, fmt.Errorf("unexpected delimiter %v", v)
	case json.Number:
		s := v.String()
		if strings.ContainsAny(s, ".eE") {
			return scalar("!!float", s), nil
		}
		return scalar("!!int", s), nil
	case string:
		return scalar("!!str", v), nil
	case bool:
		if v {
			return scalar("!!bool", "true"), nil
		}
		return scalar("!!bool", "false"), nil
	case nil:
		return scalar("!!null", "null"), nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// jsonFromNode writes n as JSON. Numbers are copied as text when they are
// already valid JSON.
func jsonFromNode(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return jsonFromNode(buf, n.Content[0])
	case yaml.AliasNode:
		return jsonFromNode(buf, n.Alias)
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(n.Content[i].Value)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := jsonFromNode(buf, n.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := jsonFromNode(buf, c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case yaml.ScalarNode:
		return jsonScalar(buf, n)
	}
	return fmt.Errorf("line %d: unsupported yaml node", n.Line)
}

func jsonScalar(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.ShortTag() {
	case "!!null":
		buf.WriteString("null")
		return nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return err
		}
		buf.WriteString(fmt.Sprint(b))
		return nil
	case "!!int", "!!float":
		if json.Valid([]byte(n.Value)) {
			buf.WriteString(n.Value)
			return nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return err
		}
		out, err := json.Marshal(f)
		if err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		buf.Write(out)
		return nil
	}
	out, err := json.Marshal(n.Value)
	if err != nil {
		return err
	}
	buf.Write(out)
	return nil
}
