package serverstore

import (
	"fmt"

	bolt "go.etcd.io/bbolt"

	"mcpsettings/internal/domain"
)

const (
	schemaVersion = domain.ServersDocumentVersion

	bucketName  = domain.ServersNamespace
	documentKey = "document"
)

func ensureSchema(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		if err != nil {
			return fmt.Errorf("create %s bucket: %w", bucketName, err)
		}
		raw := bucket.Get([]byte(documentKey))
		if raw == nil {
			return putDocument(bucket, domain.ServersDocument{
				Servers: []domain.ServerConfig{},
				Version: schemaVersion,
			})
		}
		doc, err := decodeDocument(raw)
		if err != nil {
			return err
		}

		switch {
		case doc.Version == 0:
			doc.Version = schemaVersion
			return putDocument(bucket, doc)
		case doc.Version > schemaVersion:
			return fmt.Errorf("unsupported servers document version %d", doc.Version)
		case doc.Version < schemaVersion:
			migrated, err := migrateDocument(doc, doc.Version, schemaVersion)
			if err != nil {
				return err
			}
			return putDocument(bucket, migrated)
		default:
			return nil
		}
	})
}

func migrateDocument(doc domain.ServersDocument, fromVersion, toVersion int) (domain.ServersDocument, error) {
	if fromVersion == toVersion {
		return doc, nil
	}
	return domain.ServersDocument{}, fmt.Errorf("missing migration path from %d to %d", fromVersion, toVersion)
}

func readDocument(tx *bolt.Tx) (domain.ServersDocument, error) {
	bucket := tx.Bucket([]byte(bucketName))
	if bucket == nil {
		return domain.ServersDocument{Servers: []domain.ServerConfig{}, Version: schemaVersion}, nil
	}
	raw := bucket.Get([]byte(documentKey))
	if raw == nil {
		return domain.ServersDocument{Servers: []domain.ServerConfig{}, Version: schemaVersion}, nil
	}
	return decodeDocument(raw)
}

func writeDocument(tx *bolt.Tx, doc domain.ServersDocument) error {
	bucket, err := tx.CreateBucketIfNotExists([]byte(bucketName))
	if err != nil {
		return fmt.Errorf("create %s bucket: %w", bucketName, err)
	}
	return putDocument(bucket, doc)
}

func putDocument(bucket *bolt.Bucket, doc domain.ServersDocument) error {
	data, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	if err := bucket.Put([]byte(documentKey), data); err != nil {
		return fmt.Errorf("write servers document: %w", err)
	}
	return nil
}
