package settings

import (
	"encoding/binary"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

const (
	schemaVersion = 1

	rootBucketName     = "settings"
	metaBucketName     = "meta"
	sectionsBucketName = "sections"
	versionKey         = "version"
)

func ensureSchema(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists([]byte(rootBucketName))
		if err != nil {
			return fmt.Errorf("create root bucket: %w", err)
		}
		meta, err := root.CreateBucketIfNotExists([]byte(metaBucketName))
		if err != nil {
			return fmt.Errorf("create meta bucket: %w", err)
		}
		if _, err := root.CreateBucketIfNotExists([]byte(sectionsBucketName)); err != nil {
			return fmt.Errorf("create sections bucket: %w", err)
		}

		currentVersion := readSchemaVersion(meta)
		switch {
		case currentVersion == 0:
			return writeSchemaVersion(meta, schemaVersion)
		case currentVersion > schemaVersion:
			return fmt.Errorf("unsupported settings schema version %d", currentVersion)
		case currentVersion < schemaVersion:
			return fmt.Errorf("missing migration path from %d to %d", currentVersion, schemaVersion)
		default:
			return nil
		}
	})
}

func readSchemaVersion(meta *bolt.Bucket) int {
	if meta == nil {
		return 0
	}
	raw := meta.Get([]byte(versionKey))
	if len(raw) != 8 {
		return 0
	}
	return int(binary.BigEndian.Uint64(raw))
}

func writeSchemaVersion(meta *bolt.Bucket, version int) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(version))
	return meta.Put([]byte(versionKey), buf)
}

func sectionsBucket(tx *bolt.Tx) (*bolt.Bucket, error) {
	root := tx.Bucket([]byte(rootBucketName))
	if root == nil {
		return nil, fmt.Errorf("missing root bucket")
	}
	sections := root.Bucket([]byte(sectionsBucketName))
	if sections == nil {
		return nil, fmt.Errorf("missing sections bucket")
	}
	return sections, nil
}

func readVersion(tx *bolt.Tx) (int, error) {
	root := tx.Bucket([]byte(rootBucketName))
	if root == nil {
		return 0, fmt.Errorf("missing root bucket")
	}
	version := readSchemaVersion(root.Bucket([]byte(metaBucketName)))
	if version == 0 {
		return 0, fmt.Errorf("schema version not set")
	}
	return version, nil
}
