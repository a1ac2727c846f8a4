package serverstore

import (
	"fmt"

	"github.com/bytedance/sonic"

	"mcpsettings/internal/domain"
)

// documentAPI keeps encoding/json semantics for field tags and escaping.
var documentAPI = sonic.ConfigStd

func encodeDocument(doc domain.ServersDocument) ([]byte, error) {
	if doc.Servers == nil {
		doc.Servers = []domain.ServerConfig{}
	}
	data, err := documentAPI.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode servers document: %w", err)
	}
	return data, nil
}

func decodeDocument(raw []byte) (domain.ServersDocument, error) {
	var doc domain.ServersDocument
	if err := documentAPI.Unmarshal(raw, &doc); err != nil {
		return domain.ServersDocument{}, fmt.Errorf("decode servers document: %w", err)
	}
	if doc.Servers == nil {
		doc.Servers = []domain.ServerConfig{}
	}
	return doc, nil
}
