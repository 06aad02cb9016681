package devserver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"taskmate/internal/service"
)

// record is the stored row. Seq keeps insertion order, ID is the public identifier.
type record struct {
	Seq         int64  `gorm:"primaryKey;autoIncrement"`
	ID          string `gorm:"column:id;uniqueIndex;not null"`
	Title       string `gorm:"column:title"`
	Description string `gorm:"column:description"`
	Completed   bool   `gorm:"column:completed"`
	Created     string `gorm:"column:created_at"`
}

func (record) TableName() string { return "tasks" }

func (r record) task() service.Task {
	return service.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		CreatedAt:   r.Created,
	}
}

// patch is a partial update as received on PATCH /tasks/:id.
type patch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	CreatedAt   *string `json:"createdAt"`
}

func (p patch) columns() map[string]any {
	cols := map[string]any{}
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Completed != nil {
		cols["completed"] = *p.Completed
	}
	if p.CreatedAt != nil {
		cols["created_at"] = *p.CreatedAt
	}
	return cols
}

// Store persists tasks in sqlite through gorm.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// Open opens (creating if needed) the sqlite database at path and migrates it.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	gdb, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
	}, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	if err := gdb.Exec(`PRAGMA journal_mode=WAL;`).Error; err != nil {
		return nil, err
	}
	if err := gdb.Exec(`PRAGMA busy_timeout=5000;`).Error; err != nil {
		return nil, err
	}
	if err := gdb.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("migrate tasks table: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	return &Store{db: gdb, now: time.Now}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// List returns every task in insertion order.
func (s *Store) List(ctx context.Context) ([]service.Task, error) {
	var rows []record
	if err := s.db.WithContext(ctx).Order("seq").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]service.Task, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.task())
	}
	return out, nil
}

// Get returns one task or service.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (service.Task, error) {
	r, err := s.find(ctx, s.db, id)
	if err != nil {
		return service.Task{}, err
	}
	return r.task(), nil
}

// Create inserts a task with a fresh uuid.
func (s *Store) Create(ctx context.Context, in service.NewTask) (service.Task, error) {
	r := record{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
		Created:     in.CreatedAt,
	}
	if r.Created == "" {
		r.Created = s.now().UTC().Format(time.RFC3339)
	}
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return service.Task{}, err
	}
	return r.task(), nil
}

// Patch merges the present fields into the task.
func (s *Store) Patch(ctx context.Context, id string, p patch) (service.Task, error) {
	var out record
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := s.find(ctx, tx, id)
		if err != nil {
			return err
		}
		if cols := p.columns(); len(cols) > 0 {
			if err := tx.Model(&record{}).Where("id = ?", id).Updates(cols).Error; err != nil {
				return err
			}
			r, err = s.find(ctx, tx, id)
			if err != nil {
				return err
			}
		}
		out = r
		return nil
	})
	if err != nil {
		return service.Task{}, err
	}
	return out.task(), nil
}

// Replace overwrites every field except the id. An empty createdAt keeps the stored one.
func (s *Store) Replace(ctx context.Context, id string, in service.NewTask) (service.Task, error) {
	p := patch{
		Title:       &in.Title,
		Description: &in.Description,
		Completed:   &in.Completed,
	}
	if in.CreatedAt != "" {
		p.CreatedAt = &in.CreatedAt
	}
	return s.Patch(ctx, id, p)
}

// Delete removes the task or returns service.ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&record{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (s *Store) find(ctx context.Context, db *gorm.DB, id string) (record, error) {
	var r record
	err := db.WithContext(ctx).Where("id = ?", id).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return record{}, service.ErrNotFound
	}
	return r, err
}
