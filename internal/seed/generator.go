// Package seed populates an empty registry with internally consistent sample
// records: parcels owned by existing accounts, and expropriation cases
// derived from the earliest of those parcels.
package seed

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/stwalsh4118/landregistry/internal/config"
	"github.com/stwalsh4118/landregistry/internal/logger"
	"github.com/stwalsh4118/landregistry/internal/metrics"
	"github.com/stwalsh4118/landregistry/internal/models"
)

// Generation defaults.
const (
	DefaultParcelCount        = 50
	DefaultExpropriationCount = 3

	// AdminAddress initiates every seeded expropriation.
	AdminAddress = "0x000000000000000000000000000000000000dEaD"

	// BoundaryOffset is the half side of a parcel boundary in degrees.
	BoundaryOffset = 0.001

	minArea = 100.0
	maxArea = 10000.0

	minFine   = 1000
	maxFine   = 50000
	minCredit = 100
	maxCredit = 5000

	// A score above this produces the "no issues" report narrative.
	cleanReportThreshold = 80

	progressEvery = 10
)

var compensationFactor = decimal.RequireFromString("1.2")

// Status is the outcome of a generator run.
type Status string

const (
	StatusSeeded            Status = "seeded"
	StatusAlreadySeeded     Status = "already_seeded"
	StatusNoOwnerCandidates Status = "no_owner_candidates"
)

// ParcelStore is the parcel persistence the generator needs.
type ParcelStore interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, parcel *models.LandParcel) error
	FindEarliest(ctx context.Context, limit int) ([]models.LandParcel, error)
	UpdateStatus(ctx context.Context, id uint, status models.ParcelStatus) error
}

// ExpropriationStore is the expropriation persistence the generator needs.
type ExpropriationStore interface {
	Create(ctx context.Context, expropriation *models.Expropriation) error
}

// OwnerSource lists the accounts parcels may be assigned to.
type OwnerSource interface {
	FindActiveOwnerCandidates(ctx context.Context) ([]models.OwnerCandidate, error)
}

// Result reports what a run wrote. Parcels reflect any status change made
// while deriving expropriations.
type Result struct {
	Status         Status
	Parcels        []*models.LandParcel
	Expropriations []*models.Expropriation
}

// Generator writes sample parcels and expropriations. It is not safe for
// concurrent use.
type Generator struct {
	parcels            ParcelStore
	expropriations     ExpropriationStore
	owners             OwnerSource
	log                *logger.Logger
	metrics            *metrics.Metrics
	source             Source
	decider            Decider
	now                func() time.Time
	gazetteer          []Location
	parcelCount        int
	expropriationCount int
}

// Option configures a Generator.
type Option func(*Generator)

// FromConfig returns the count and randomness options selected by cfg.
func FromConfig(cfg config.SeedConfig) []Option {
	return []Option{
		WithParcelCount(cfg.ParcelCount),
		WithExpropriationCount(cfg.ExpropriationCount),
		WithSource(NewSource(cfg.RandomSeed)),
	}
}

// WithParcelCount sets how many parcels a run creates.
func WithParcelCount(n int) Option {
	return func(g *Generator) { g.parcelCount = n }
}

// WithExpropriationCount sets how many of the earliest parcels receive an
// expropriation case.
func WithExpropriationCount(n int) Option {
	return func(g *Generator) { g.expropriationCount = n }
}

// WithSource replaces the random source. Unless WithDecider is also given,
// the default decider draws from the new source.
func WithSource(s Source) Option {
	return func(g *Generator) { g.source = s }
}

// WithDecider replaces the branch decider.
func WithDecider(d Decider) Option {
	return func(g *Generator) { g.decider = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithGazetteer replaces the location sampling domain.
func WithGazetteer(locations []Location) Option {
	return func(g *Generator) { g.gazetteer = locations }
}

// WithMetrics records seeded record counts.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Generator) { g.metrics = m }
}

// NewGenerator creates a Generator with the default counts, a time-seeded
// source and the default gazetteer.
func NewGenerator(parcels ParcelStore, expropriations ExpropriationStore, owners OwnerSource, log *logger.Logger, opts ...Option) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	g := &Generator{
		parcels:            parcels,
		expropriations:     expropriations,
		owners:             owners,
		log:                log.WithComponent("seed"),
		now:                time.Now,
		gazetteer:          DefaultGazetteer(),
		parcelCount:        DefaultParcelCount,
		expropriationCount: DefaultExpropriationCount,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	if g.source == nil {
		g.source = NewSource(0)
	}
	if g.decider == nil {
		g.decider = NewDecider(g.source)
	}
	return g
}

// Run seeds an empty parcel store. It does nothing and reports
// StatusAlreadySeeded if any parcel exists, or StatusNoOwnerCandidates if
// there is nobody to own parcels. Writes are not wrapped in a transaction:
// a storage error aborts the run and leaves what was already written.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	existing, err := g.parcels.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count parcels: %w", err)
	}
	if existing > 0 {
		g.log.Info("Parcels already seeded, skipping", map[string]interface{}{
			"existing_parcels": existing,
		})
		return &Result{Status: StatusAlreadySeeded}, nil
	}

	owners, err := g.owners.FindActiveOwnerCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load owner candidates: %w", err)
	}
	if len(owners) == 0 {
		g.log.Warn("No active users found, run the user seeder first", nil)
		return &Result{Status: StatusNoOwnerCandidates}, nil
	}
	if len(g.gazetteer) == 0 {
		return nil, fmt.Errorf("gazetteer has no locations")
	}

	g.log.Info("Seeding land parcels", map[string]interface{}{
		"parcels":          g.parcelCount,
		"owner_candidates": len(owners),
	})

	result := &Result{Status: StatusSeeded}
	for i := 0; i < g.parcelCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		parcel := g.buildParcel(i, owners)
		if err := g.parcels.Create(ctx, parcel); err != nil {
			return nil, fmt.Errorf("failed to persist parcel %d of %d: %w", i+1, g.parcelCount, err)
		}
		result.Parcels = append(result.Parcels, parcel)

		if (i+1)%progressEvery == 0 {
			g.log.Debug("Seeding progress", map[string]interface{}{
				"created": i + 1,
				"total":   g.parcelCount,
			})
		}
	}
	g.metrics.AddSeeded("parcel", len(result.Parcels))

	if err := g.seedExpropriations(ctx, result); err != nil {
		return nil, err
	}

	g.log.Info("Seeding completed", map[string]interface{}{
		"parcels":        len(result.Parcels),
		"expropriations": len(result.Expropriations),
	})
	return result, nil
}

func (g *Generator) seedExpropriations(ctx context.Context, result *Result) error {
	if g.expropriationCount <= 0 {
		return nil
	}

	earliest, err := g.parcels.FindEarliest(ctx, g.expropriationCount)
	if err != nil {
		return fmt.Errorf("failed to load earliest parcels: %w", err)
	}

	for i := range earliest {
		parcel := &earliest[i]
		expropriation := g.buildExpropriation(parcel)
		if err := g.expropriations.Create(ctx, expropriation); err != nil {
			return fmt.Errorf("failed to persist expropriation for parcel %s: %w", parcel.ParcelID, err)
		}
		result.Expropriations = append(result.Expropriations, expropriation)

		// Seeding artifact: some source parcels are moved to the terminal
		// status, others keep their status while a case exists.
		if g.decider.Decide(DecideExpropriateParcel) {
			if err := g.parcels.UpdateStatus(ctx, parcel.ID, models.ParcelStatusExpropriated); err != nil {
				return fmt.Errorf("failed to mark parcel %s expropriated: %w", parcel.ParcelID, err)
			}
			markExpropriated(result.Parcels, parcel.ID)
		}
	}
	g.metrics.AddSeeded("expropriation", len(result.Expropriations))
	return nil
}

func markExpropriated(parcels []*models.LandParcel, id uint) {
	for _, p := range parcels {
		if p.ID == id {
			p.Status = models.ParcelStatusExpropriated
			return
		}
	}
}

// buildParcel draws every field of the i-th parcel. Draw order is fixed so
// a seeded Source reproduces the same records.
func (g *Generator) buildParcel(i int, owners []models.OwnerCandidate) *models.LandParcel {
	now := g.now()

	owner := owners[g.source.IntN(len(owners))]
	loc := g.gazetteer[g.source.IntN(len(g.gazetteer))]
	landUse := pick(g.source, models.AllLandUses())
	status := pick(g.source, models.SeedableParcelStatuses())
	compliance := pick(g.source, models.AllComplianceStatuses())

	area := math.Round((minArea+g.source.Float64()*(maxArea-minArea))*100) / 100
	multiplier := 0.8 + g.source.Float64()*0.4
	score := g.source.IntN(100)

	parcelID := fmt.Sprintf("LP-%d-%04d", now.Year(), i+1)
	location := models.NewPoint(loc.Latitude, loc.Longitude)
	lastInspection := now.AddDate(0, 0, -(1 + g.source.IntN(365)))
	nextInspection := now.AddDate(0, 0, 1+g.source.IntN(180))

	parcel := &models.LandParcel{
		ParcelID:           parcelID,
		OwnerAddress:       owner.Address,
		OwnerName:          owner.DisplayName(),
		OwnerEmail:         owner.Email,
		OwnerPhone:         owner.Phone(),
		LandUse:            landUse,
		Status:             status,
		ComplianceStatus:   compliance,
		Area:               area,
		EstimatedValue:     EstimateValue(area, loc, multiplier),
		District:           loc.District,
		Sector:             loc.Sector,
		Cell:               loc.Cell,
		Village:            loc.Village,
		Location:           location,
		Latitude:           loc.Latitude,
		Longitude:          loc.Longitude,
		Boundary:           models.SquareAround(location, BoundaryOffset),
		ComplianceScore:    score,
		LastInspectionDate: lastInspection,
		NextInspectionDate: nextInspection,
		Fines:              decimal.Zero,
		Credits:            decimal.Zero,
		Documents:          g.buildDocuments(parcelID, now),
		ComplianceReports:  []models.ComplianceReport{buildReport(score, loc, lastInspection)},
		Metadata:           datatypes.NewJSONType(g.buildMetadata(loc)),
	}

	if g.decider.Decide(DecideFines) {
		parcel.Fines = decimal.NewFromInt(int64(minFine + g.source.IntN(maxFine-minFine+1)))
	}
	if g.decider.Decide(DecideCredits) {
		parcel.Credits = decimal.NewFromInt(int64(minCredit + g.source.IntN(maxCredit-minCredit+1)))
	}

	if g.decider.Decide(DecideNominateHeir) {
		g.nominateHeir(parcel, owner, owners)
	}

	return parcel
}

// nominateHeir picks an heir other than the owner. With no other candidate
// the parcel stays without a nomination.
func (g *Generator) nominateHeir(parcel *models.LandParcel, owner models.OwnerCandidate, owners []models.OwnerCandidate) {
	others := make([]models.OwnerCandidate, 0, len(owners))
	for _, c := range owners {
		if !strings.EqualFold(c.Address, owner.Address) {
			others = append(others, c)
		}
	}
	if len(others) == 0 {
		return
	}

	heir := others[g.source.IntN(len(others))]
	relationship := pick(g.source, models.AllHeirRelationships())
	address := heir.Address

	parcel.HeirAddress = &address
	parcel.HeirRelationship = &relationship
	parcel.HeirDetails = models.HeirSnapshot{
		Name:         heir.DisplayName(),
		Email:        heir.Email,
		Phone:        heir.Phone(),
		Address:      heir.Address,
		Relationship: relationship,
	}
	parcel.InheritanceActive = g.decider.Decide(DecideInheritanceActive)
}

func (g *Generator) buildDocuments(parcelID string, now time.Time) []models.Document {
	return []models.Document{
		{
			ID:          uuid.NewString(),
			Name:        "Title Deed - " + parcelID,
			Type:        models.DocumentTitleDeed,
			ContentHash: ContentHash(parcelID, models.DocumentTitleDeed),
			UploadedAt:  now,
			Verified:    true,
		},
		{
			ID:          uuid.NewString(),
			Name:        "Survey Plan - " + parcelID,
			Type:        models.DocumentSurveyPlan,
			ContentHash: ContentHash(parcelID, models.DocumentSurveyPlan),
			UploadedAt:  now,
			Verified:    g.decider.Decide(DecideSurveyVerified),
		},
	}
}

func (g *Generator) buildMetadata(loc Location) models.ParcelMetadata {
	meta := models.ParcelMetadata{
		SoilType:  "clay",
		Elevation: "1400-1800m",
		Amenities: append([]string(nil), loc.Amenities...),
	}
	if g.decider.Decide(DecideSoilType) {
		meta.SoilType = "loam"
	}
	if g.decider.Decide(DecideElevation) {
		meta.Elevation = "1800-2200m"
	}
	meta.UtilityAccess = models.UtilityAccess{
		Water:       g.decider.Decide(DecideWaterAccess),
		Electricity: g.decider.Decide(DecideElectricityAccess),
		Road:        g.decider.Decide(DecideRoadAccess),
	}
	return meta
}

func buildReport(score int, loc Location, date time.Time) models.ComplianceReport {
	report := models.ComplianceReport{
		ID:         uuid.NewString(),
		Score:      score,
		Inspector:  loc.District + " District Land Inspector",
		ReportDate: date,
	}
	if score > cleanReportThreshold {
		report.Findings = "No significant compliance issues found"
		report.Recommendations = "Continue regular maintenance and keep records current"
	} else {
		report.Findings = "Minor compliance issues identified"
		report.Recommendations = "Address the identified issues before the next inspection"
	}
	return report
}

func (g *Generator) buildExpropriation(parcel *models.LandParcel) *models.Expropriation {
	now := g.now()
	status := pick(g.source, models.SeedableExpropriationStatuses())
	reason := pick(g.source, models.SeedableExpropriationReasons())
	title := projectTitle(reason)

	return &models.Expropriation{
		LandParcelID:         parcel.ID,
		ParcelCode:           parcel.ParcelID,
		Status:               status,
		Reason:               reason,
		InitiatedBy:          AdminAddress,
		ProposedCompensation: parcel.EstimatedValue.Mul(compensationFactor),
		Timeline: []models.TimelineEvent{{
			Timestamp: now,
			Event:     "expropriation_initiated",
			Actor:     AdminAddress,
			Status:    status,
			Notes:     "Case opened for " + title,
		}},
		Project: datatypes.NewJSONType(models.ProjectDetails{
			Name:                   fmt.Sprintf("%s - %s", title, parcel.District),
			Description:            fmt.Sprintf("Public %s affecting parcel %s", strings.ToLower(title), parcel.ParcelID),
			Authority:              "Rwanda Land Management and Use Authority",
			ExpectedCompletionDate: now.AddDate(1, 0, 0),
		}),
	}
}

func projectTitle(reason models.ExpropriationReason) string {
	switch reason {
	case models.ReasonInfrastructure:
		return "Infrastructure Project"
	case models.ReasonUrbanDevelopment:
		return "Urban Development Project"
	case models.ReasonEnvironmental:
		return "Environmental Protection Project"
	default:
		return "Public Project"
	}
}

// ContentHash is the Keccak-256 reference stored for a seeded document.
func ContentHash(parcelID string, docType models.DocumentType) string {
	return crypto.Keccak256Hash([]byte(parcelID + ":" + string(docType))).Hex()
}

func pick[T any](s Source, set []T) T {
	return set[s.IntN(len(set))]
}
