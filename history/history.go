// Package history keeps a local record of uploaded files in a bolt database.
package history

import (
	"encoding/binary"
	"github.com/boltdb/bolt"
	"github.com/hetianyi/gox/file"
	json "github.com/json-iterator/go"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"path/filepath"
	"time"
)

var bucketUploads = []byte("uploads")

// Record is one uploaded file.
type Record struct {
	FileId     string    `json:"fileId"`
	Group      string    `json:"group"`
	RemotePath string    `json:"remotePath"`
	LocalName  string    `json:"localName"`
	Size       int64     `json:"size"`
	Time       time.Time `json:"time"`
}

type History struct {
	db *bolt.DB
}

// Open opens or creates the history database at path, "~" is expanded.
func Open(path string) (*History, error) {
	p, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	if dir := filepath.Dir(p); !file.Exists(dir) {
		if err := file.CreateDirs(dir); err != nil {
			return nil, err
		}
	}
	db, err := bolt.Open(p, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "error open history database")
	}
	if err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketUploads)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &History{db: db}, nil
}

// Add appends a record, a zero Time is set to now.
func (h *History) Add(r *Record) error {
	if r.Time.IsZero() {
		r.Time = time.Now()
	}
	bs, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return h.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUploads)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(sequenceKey(seq), bs)
	})
}

// List returns the latest records first, at most limit of them.
// A limit <= 0 returns all records.
func (h *History) List(limit int) ([]*Record, error) {
	var ret []*Record
	err := h.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketUploads).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(ret) >= limit {
				break
			}
			r := &Record{}
			if err := json.Unmarshal(v, r); err != nil {
				return errors.Wrapf(err, "broken history record %d", binary.BigEndian.Uint64(k))
			}
			ret = append(ret, r)
		}
		return nil
	})
	return ret, err
}

func (h *History) Close() error {
	return h.db.Close()
}

// sequenceKey keeps bolt's byte ordering equal to insertion order.
func sequenceKey(seq uint64) []byte {
	bs := make([]byte, 8)
	binary.BigEndian.PutUint64(bs, seq)
	return bs
}
