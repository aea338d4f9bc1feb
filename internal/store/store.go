// Package store adapts the hub's Postgres database (proposals and votes) into the domain
// types boost-guardd's core operates on. It is read-only: boost-guardd never writes to the
// hub schema, it only queries it (spec §3, §6).
package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/snapshot-labs/boost-guard/internal/domain"
)

// proposalRow mirrors the hub's proposals table. Column names follow the hub schema; this
// service never migrates or writes this table.
type proposalRow struct {
	ID            string  `gorm:"column:id;primaryKey"`
	Space         string  `gorm:"column:space"`
	Type          string  `gorm:"column:type"`
	Privacy       string  `gorm:"column:privacy"`
	ScoresState   string  `gorm:"column:scores_state"`
	Start         int64   `gorm:"column:start"`
	End           int64   `gorm:"column:end"`
	Choices       []byte  `gorm:"column:choices"`
	Scores        []byte  `gorm:"column:scores"`
	ScoresTotal   float64 `gorm:"column:scores_total"`
}

func (proposalRow) TableName() string { return "proposals" }

// voteRow mirrors the hub's votes table.
type voteRow struct {
	Voter       string  `gorm:"column:voter"`
	ProposalID  string  `gorm:"column:proposal"`
	Choice      []byte  `gorm:"column:choice"`
	VotingPower float64 `gorm:"column:vp"`
}

func (voteRow) TableName() string { return "votes" }

// Store is the read-only adapter over the hub's proposal and vote tables.
type Store struct {
	db *gorm.DB
}

// Open establishes the Postgres connection used to read proposals and votes.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open hub database: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenWithDB wraps an already-open *gorm.DB, letting tests point the adapter at an in-memory
// database instead of a live Postgres instance.
func OpenWithDB(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the proposals/votes tables on db. Production boost-guardd never calls this
// (it only reads the hub's existing schema); it exists for tests that stand up an in-memory
// database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&proposalRow{}, &voteRow{})
}

// ErrNotFound is returned when a proposal or vote row does not exist.
var ErrNotFound = gorm.ErrRecordNotFound

// Proposal fetches a single proposal by id.
func (s *Store) Proposal(ctx context.Context, id string) (domain.Proposal, error) {
	var row proposalRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return domain.Proposal{}, err
	}
	return toDomainProposal(row)
}

// Vote fetches a single voter's vote on a proposal, if one exists.
func (s *Store) Vote(ctx context.Context, voter, proposalID string) (domain.Vote, error) {
	var row voteRow
	err := s.db.WithContext(ctx).
		Where("voter = ? AND proposal = ?", voter, proposalID).
		First(&row).Error
	if err != nil {
		return domain.Vote{}, err
	}
	return toDomainVote(row)
}

// VotesDescending returns every vote on a proposal, ordered by voting power descending. This
// ordering is a precondition the weighted-with-cap reward engine relies on (spec open
// question #2); callers must not reorder the result.
func (s *Store) VotesDescending(ctx context.Context, proposalID string) ([]domain.Vote, error) {
	var rows []voteRow
	err := s.db.WithContext(ctx).
		Where("proposal = ?", proposalID).
		Order("vp DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	votes := make([]domain.Vote, 0, len(rows))
	for _, row := range rows {
		v, convErr := toDomainVote(row)
		if convErr != nil {
			return nil, convErr
		}
		votes = append(votes, v)
	}
	return votes, nil
}

// CountAll counts every vote cast on a proposal, used by the Even distribution's Incentive
// eligibility path.
func (s *Store) CountAll(ctx context.Context, proposalID string) (uint32, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&voteRow{}).
		Where("proposal = ?", proposalID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return uint32(count), nil
}

func toDomainProposal(row proposalRow) (domain.Proposal, error) {
	choices, err := decodeStrings(row.Choices)
	if err != nil {
		return domain.Proposal{}, fmt.Errorf("decode proposal choices: %w", err)
	}
	scores, err := decodeFloats(row.Scores)
	if err != nil {
		return domain.Proposal{}, fmt.Errorf("decode proposal scores: %w", err)
	}
	return domain.Proposal{
		ID:          row.ID,
		Space:       row.Space,
		Type:        domain.ProposalType(row.Type),
		Privacy:     domain.ProposalPrivacy(row.Privacy),
		State:       stateFromScoresState(row.ScoresState),
		Start:       time.Unix(row.Start, 0).UTC(),
		End:         time.Unix(row.End, 0).UTC(),
		Choices:     choices,
		Scores:      scores,
		ScoresTotal: row.ScoresTotal,
	}, nil
}

func stateFromScoresState(scoresState string) domain.ProposalState {
	if scoresState == "final" {
		return domain.ProposalStateClosed
	}
	return domain.ProposalStateActive
}

func toDomainVote(row voteRow) (domain.Vote, error) {
	choice, err := decodeChoice(row.Choice)
	if err != nil {
		return domain.Vote{}, fmt.Errorf("decode vote choice: %w", err)
	}
	return domain.Vote{
		Voter:       addressFromHex(row.Voter),
		ProposalID:  row.ProposalID,
		Choice:      choice,
		VotingPower: row.VotingPower,
	}, nil
}
