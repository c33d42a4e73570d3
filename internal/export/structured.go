package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/SanjuDataRepository/PBIP-Decoder/pkg/report"
)

const jsonIndent = "  "

// RenderJSON writes an object keyed by table name whose values are lists of
// records. Tables and record members keep their column order.
func RenderJSON(w io.Writer, tables []report.Table) error {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, table := range tables {
		if i > 0 {
			buf.WriteByte(',')
		}

		if err := writeJSONString(&buf, table.Name); err != nil {
			return err
		}

		buf.WriteString(":[")

		for j, row := range table.Rows() {
			if j > 0 {
				buf.WriteByte(',')
			}

			if err := writeJSONRecord(&buf, table.Columns, row); err != nil {
				return err
			}
		}

		buf.WriteByte(']')
	}

	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", jsonIndent); err != nil {
		return fmt.Errorf("indent json: %w", err)
	}

	out.WriteByte('\n')

	if _, err := out.WriteTo(w); err != nil {
		return fmt.Errorf("write json: %w", err)
	}

	return nil
}

func writeJSONRecord(buf *bytes.Buffer, columns, row []string) error {
	buf.WriteByte('{')

	for k, column := range columns {
		if k > 0 {
			buf.WriteByte(',')
		}

		if err := writeJSONString(buf, column); err != nil {
			return err
		}

		buf.WriteByte(':')

		if err := writeJSONString(buf, row[k]); err != nil {
			return err
		}
	}

	buf.WriteByte('}')

	return nil
}

// writeJSONString encodes s without HTML escaping, so "<>" stays readable.
func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode %q: %w", s, err)
	}

	return nil
}

// RenderYAML writes the same shape as RenderJSON as a YAML document.
func RenderYAML(w io.Writer, tables []report.Table) error {
	doc := &yaml.Node{Kind: yaml.MappingNode}

	for _, table := range tables {
		records := &yaml.Node{Kind: yaml.SequenceNode}

		for _, row := range table.Rows() {
			record := &yaml.Node{Kind: yaml.MappingNode}

			for k, column := range table.Columns {
				record.Content = append(record.Content, stringNode(column), stringNode(row[k]))
			}

			records.Content = append(records.Content, record)
		}

		doc.Content = append(doc.Content, stringNode(table.Name), records)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("flush yaml: %w", err)
	}

	return nil
}

func stringNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}
