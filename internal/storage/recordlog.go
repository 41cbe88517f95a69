package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/solbot-backend/internal/domain"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StoredRecord is one envelope in the record service's append-only log. The
// indexed columns mirror the envelope fields filters use; Body holds the
// envelope itself.
type StoredRecord struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Kind         string         `gorm:"column:kind;not null;index:idx_record_kind_learner" json:"kind"`
	LearnerID    *uuid.UUID     `gorm:"type:uuid;index:idx_record_kind_learner" json:"learner_id,omitempty"`
	PhaseID      string         `gorm:"column:phase_id;index" json:"phase_id,omitempty"`
	DataType     string         `gorm:"column:data_type" json:"data_type,omitempty"`
	EnrollmentID *uuid.UUID     `gorm:"type:uuid;index" json:"enrollment_id,omitempty"`
	RefKey       string         `gorm:"column:ref_key;index" json:"ref_key,omitempty"`
	Body         datatypes.JSON `gorm:"column:body;not null" json:"body"`
	CreatedAt    time.Time      `gorm:"not null;index" json:"created_at"`
	ReceivedAt   time.Time      `gorm:"not null" json:"received_at"`
}

func (StoredRecord) TableName() string { return "stored_record" }

func (s *StoredRecord) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// RecordLog is the backing store of the record service. It accepts any kind,
// including reference data, so the service can be seeded.
type RecordLog struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecordLog(db *gorm.DB, baseLog *logger.Logger) *RecordLog {
	return &RecordLog{db: db, log: baseLog.With("repo", "RecordLog")}
}

func (l *RecordLog) Migrate() error {
	return l.db.AutoMigrate(&StoredRecord{})
}

func (l *RecordLog) Name() TierID { return TierSecondary }

func (l *RecordLog) Put(ctx context.Context, rec *Record) (Outcome, error) {
	const op = "storage.recordlog.put"
	if rec == nil || !rec.Kind.Valid() {
		return Outcome{}, types.Rejected(op, "record with a known kind is required")
	}
	if rec.Kind.Writable() {
		if err := rec.Validate(); err != nil {
			return Outcome{}, err
		}
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.withTier(TierSecondary)

	body, err := json.Marshal(rec)
	if err != nil {
		return Outcome{}, types.Rejected(op, "record is not serializable: %v", err)
	}
	row := &StoredRecord{
		ID:         rec.ID,
		Kind:       string(rec.Kind),
		PhaseID:    rec.PhaseID,
		DataType:   rec.DataType,
		Body:       datatypes.JSON(body),
		CreatedAt:  rec.CreatedAt,
		ReceivedAt: time.Now().UTC(),
	}
	if rec.LearnerID != uuid.Nil {
		id := rec.LearnerID
		row.LearnerID = &id
	}
	if rec.PhaseProgress != nil {
		id := rec.PhaseProgress.EnrollmentID
		row.EnrollmentID = &id
	}
	if rec.Rubric != nil {
		row.RefKey = rec.Rubric.ID
	}
	if err := l.db.WithContext(ctx).Create(row).Error; err != nil {
		return Outcome{}, MapError(op, err)
	}
	return Outcome{Accepted: true, Tier: TierSecondary, RecordID: rec.ID}, nil
}

func (l *RecordLog) Get(ctx context.Context, f Filter) ([]*Record, error) {
	const op = "storage.recordlog.get"
	q := l.db.WithContext(ctx).Where("kind = ?", string(f.Kind))
	if f.LearnerID != uuid.Nil {
		q = q.Where("learner_id = ?", f.LearnerID)
	}
	if f.PhaseID != "" {
		q = q.Where("phase_id = ?", f.PhaseID)
	}
	if f.DataType != "" {
		q = q.Where("data_type = ?", f.DataType)
	}
	if f.EnrollmentID != uuid.Nil {
		q = q.Where("enrollment_id = ?", f.EnrollmentID)
	}
	if f.Key != "" {
		if id, err := uuid.Parse(f.Key); err == nil {
			q = q.Where("(ref_key = ? OR id = ?)", f.Key, id)
		} else {
			q = q.Where("ref_key = ?", f.Key)
		}
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var rows []*StoredRecord
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, MapError(op, err)
	}
	out := make([]*Record, 0, len(rows))
	for _, row := range rows {
		var rec Record
		if err := json.Unmarshal(row.Body, &rec); err != nil {
			l.log.Warn("skipping undecodable record", "record_id", row.ID.String(), "error", err)
			continue
		}
		out = append(out, &rec)
	}
	return out, nil
}
