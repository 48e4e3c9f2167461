// Package proto carries the page service contract shared by the page server
// and the editor.
//
// Messages are protobuf well-known types: documents travel as
// google.protobuf.Struct holding the same JSON shape the REST API uses, ids
// as google.protobuf.StringValue. This keeps one JSON document model for
// every transport without a separate .proto schema for the open-ended block
// props.
package proto

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/pagebuilder/internal/models"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ToStruct encodes any JSON-marshalable value as a Struct.
func ToStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode struct: %w", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("encode struct: %w", err)
	}
	return out, nil
}

// FromStruct decodes a Struct into v.
func FromStruct(s *structpb.Struct, v any) error {
	if s == nil {
		return fmt.Errorf("decode struct: empty message")
	}
	data, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("decode struct: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode struct: %w", err)
	}
	return nil
}

func EncodeSavedPage(p models.SavedPage) (*structpb.Struct, error) {
	return ToStruct(p)
}

func DecodeSavedPage(s *structpb.Struct) (models.SavedPage, error) {
	var p models.SavedPage
	if err := FromStruct(s, &p); err != nil {
		return models.SavedPage{}, err
	}
	if p.Components == nil {
		p.Components = []models.Block{}
	}
	return p, nil
}

// EncodeIndex encodes listing entries, one Struct per entry.
func EncodeIndex(entries []models.IndexEntry) (*structpb.ListValue, error) {
	list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(entries))}
	for _, e := range entries {
		s, err := ToStruct(e)
		if err != nil {
			return nil, err
		}
		list.Values = append(list.Values, structpb.NewStructValue(s))
	}
	return list, nil
}

func DecodeIndex(list *structpb.ListValue) ([]models.IndexEntry, error) {
	out := make([]models.IndexEntry, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		var e models.IndexEntry
		if err := FromStruct(v.GetStructValue(), &e); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// UpdateRequest is the payload of PageService/Update.
type UpdateRequest struct {
	ID     string           `json:"id"`
	Fields models.PageInput `json:"fields"`
}

// PublishRequest is the payload of PageService/SetPublished.
type PublishRequest struct {
	ID      string `json:"id"`
	Publish bool   `json:"publish"`
}
