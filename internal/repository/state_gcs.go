package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/icewatch/ice-news-monitor/internal/model"
)

type cloudStorageStateRepository struct {
	client     *storage.Client
	bucketName string
	objectName string
}

// NewCloudStorageStateRepository creates a state repository backed by a
// single Cloud Storage object. Object writes are atomic on Close, which
// gives the same crash guarantee as the file backend's rename.
func NewCloudStorageStateRepository(ctx context.Context, bucketName, objectName string, opts ...option.ClientOption) (StateRepository, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}

	return &cloudStorageStateRepository{
		client:     client,
		bucketName: bucketName,
		objectName: objectName,
	}, nil
}

func (c *cloudStorageStateRepository) target() string {
	return "gs://" + c.bucketName + "/" + c.objectName
}

func (c *cloudStorageStateRepository) Load(ctx context.Context) (model.SeenRecord, error) {
	obj := c.client.Bucket(c.bucketName).Object(c.objectName)

	reader, err := obj.NewReader(ctx)
	if err != nil {
		if err != storage.ErrObjectNotExist {
			log.Printf("⚠️ Could not read state object %s: %v", c.target(), err)
		}
		return model.SeenRecord{}, nil
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		log.Printf("⚠️ Could not read state object %s: %v", c.target(), err)
		return model.SeenRecord{}, nil
	}

	var record model.SeenRecord
	if err := json.Unmarshal(data, &record); err != nil {
		log.Printf("⚠️ Corrupt state object %s: %v", c.target(), err)
		return model.SeenRecord{}, nil
	}

	return record, nil
}

func (c *cloudStorageStateRepository) Save(ctx context.Context, record model.SeenRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return &PersistError{Target: c.target(), Err: err}
	}

	writer := c.client.Bucket(c.bucketName).Object(c.objectName).NewWriter(ctx)
	writer.ContentType = "application/json"

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return &PersistError{Target: c.target(), Err: err}
	}
	if err := writer.Close(); err != nil {
		return &PersistError{Target: c.target(), Err: err}
	}

	return nil
}

func (c *cloudStorageStateRepository) Close() error {
	return c.client.Close()
}
