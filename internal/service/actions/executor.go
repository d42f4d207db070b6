package actions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dembasy/ranchhand/internal/domain/models"
	repo "github.com/dembasy/ranchhand/internal/repository/mongodb"
	"github.com/dembasy/ranchhand/internal/service/farm"
)

// Defaults applied when the language model omits a parameter. The executor
// favors "create with defaults and ask for refinement" over rejecting input.
const (
	DefaultBreed        = "Mixed"
	DefaultSex          = "Unknown"
	DefaultPenCapacity  = 50
	DefaultBarnCapacity = 100
	DefaultReorderPoint = 10
	dateFormat          = "2006-01-02"
)

// Summarizer provides the farm snapshot behind getFarmSummary.
type Summarizer interface {
	Snapshot(ctx context.Context, userID string) (*farm.Snapshot, error)
}

// Service executes agent actions against the document store, scoped per user.
// Every action returns a uniform ActionResult; store failures are converted
// to {success:false} results and never escape as errors.
type Service struct {
	repo      repo.Repository
	summaries Summarizer
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// NewService constructs the action executor.
func NewService(repository repo.Repository, summaries Summarizer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:      repository,
		summaries: summaries,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Execute dispatches the descriptor to its action. Unknown names are a soft
// failure, never an error.
func (s *Service) Execute(ctx context.Context, userID string, desc models.ActionDescriptor) models.ActionResult {
	s.logger.Debug("executing action",
		zap.String("action", string(desc.Action)),
		zap.String("user_id", userID))

	switch desc.Action {
	case models.ActionAddCattle:
		return s.addCattle(ctx, userID, desc.Params)
	case models.ActionUpdateCattle:
		return s.updateCattle(ctx, userID, desc.Params)
	case models.ActionDeleteCattle:
		return s.deleteCattle(ctx, userID, desc.Params)
	case models.ActionGetCattleInfo:
		return s.getCattleInfo(ctx, userID, desc.Params)
	case models.ActionGetAllCattle:
		return s.getAllCattle(ctx, userID)
	case models.ActionAddWeightRecord:
		return s.addWeightRecord(ctx, userID, desc.Params)
	case models.ActionAddBarn:
		return s.addBarn(ctx, userID, desc.Params)
	case models.ActionAddPen:
		return s.addPen(ctx, userID, desc.Params)
	case models.ActionUpdatePen:
		return s.updatePen(ctx, userID, desc.Params)
	case models.ActionDeletePen:
		return s.deletePen(ctx, userID, desc.Params)
	case models.ActionGetPenInfo:
		return s.getPenInfo(ctx, userID, desc.Params)
	case models.ActionGetCattleCountByPen:
		return s.getCattleCountByPen(ctx, userID)
	case models.ActionAddMedication:
		return s.addMedication(ctx, userID, desc.Params)
	case models.ActionGetInventoryInfo:
		return s.getInventoryInfo(ctx, userID, desc.Params)
	case models.ActionAddHealthRecord:
		return s.addHealthRecord(ctx, userID, desc.Params)
	case models.ActionLogActivity:
		return s.logActivity(ctx, userID, desc.Params)
	case models.ActionGetFarmSummary:
		return s.getFarmSummary(ctx, userID)
	default:
		return models.ActionResult{
			Success: false,
			Message: fmt.Sprintf("Unknown action: %s", desc.Action),
		}
	}
}

type addCattleParams struct {
	TagNumber     string  `json:"tagNumber"`
	RFIDTag       string  `json:"rfidTag"`
	Breed         string  `json:"breed"`
	Sex           string  `json:"sex"`
	BirthDate     string  `json:"birthDate"`
	Stage         string  `json:"stage"`
	PenName       string  `json:"penName"`
	Weight        float64 `json:"weight"`
	PurchasePrice float64 `json:"purchasePrice"`
	Notes         string  `json:"notes"`
}

func (s *Service) addCattle(ctx context.Context, userID string, params map[string]any) models.ActionResult {
	var p addCattleParams
	decodeParams(params, &p)

	now := s.now().UTC()
	if p.TagNumber == "" {
		p.TagNumber = fmt.Sprintf("AUTO_%d", now.UnixMilli())
	}
	if p.Breed == "" {
		p.Breed = DefaultBreed
	}
	if p.Sex == "" {
		p.Sex = DefaultSex
	}

	c := models.Cattle{
		ID:            s.newID(),
		UserID:        userID,
		TagNumber:     p.TagNumber,
		RFIDTag:       p.RFIDTag,
		Breed:         p.Breed,
		Sex:           p.Sex,
		BirthDate:     parseDate(p.BirthDate),
		Stage:         p.Stage,
		Status:        models.CattleStatusActive,
		HealthStatus:  models.HealthStatusHealthy,
		PurchasePrice: p.PurchasePrice,
		CurrentWeight: p.Weight,
		Notes:         p.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if p.PenName != "" {
		pen, err := s.repo.FindPenByName(ctx, userID, p.PenName)
		if err != nil {
			return failure(fmt.Sprintf("I couldn't find a pen named %q.", p.PenName), err)
		}
		c.PenID = pen.ID
		c.BarnID = pen.BarnID
		// Two independent writes: the pen count can drift if the second one
		// fails. The reconciliation job recomputes it from the cattle
		// collection.
		pen.CurrentCount++
		pen.UpdatedAt = now
		if err := s.repo.UpdatePen(ctx, *pen); err != nil {
			s.logger.Warn("pen count not incremented", zap.String("pen", pen.Name), zap.Error(err))
		}
	}

	if err := s.repo.InsertCattle(ctx, c); err != nil {
		return failure("Failed to add the cattle record.", err)
	}
	s.recordActivity(ctx, userID, "cattle", fmt.Sprintf("Added cattle #%s (%s %s)", c.TagNumber, c.Breed, c.Sex))

	return success(fmt.Sprintf("Added cattle #%s (%s, %s) to your herd.", c.TagNumber, c.Breed, c.Sex), c)
}

type updateCattleParams struct {
	TagNumber    string  `json:"tagNumber"`
	Breed        string  `json:"breed"`
	Sex          string  `json:"sex"`
	Stage        string  `json:"stage"`
	Status       string  `json:"status"`
	HealthStatus string  `json:"healthStatus"`
	Weight       float64 `json:"weight"`
	CurrentValue float64 `json:"currentValue"`
	PenName      string  `json:"penName"`
	Notes        string  `json:"notes"`
}

func (s *Service) updateCattle(ctx context.Context, userID string, params map[string]any) models.ActionResult {
	var p updateCattleParams
	decodeParams(params, &p)
	if p.TagNumber == "" {
		return failure("I need a tag number to know which head to update.", nil)
	}

	c, err := s.repo.FindCattleByTag(ctx, userID, p.TagNumber)
	if err != nil {
		return failure(fmt.Sprintf("No cattle found with tag #%s.", p.TagNumber), err)
	}

	if p.Breed != "" {
		c.Breed = p.Breed
	}
	if p.Sex != "" {
		c.Sex = p.Sex
	}
	if p.Stage != "" {
		c.Stage = p.Stage
	}
	if p.Status != "" {
		c.Status = p.Status
	}
	if p.HealthStatus != "" {
		c.HealthStatus = p.HealthStatus
	}
	if p.Weight > 0 {
		c.CurrentWeight = p.Weight
	}
	if p.CurrentValue > 0 {
		c.CurrentValue = p.CurrentValue
	}
	if p.Notes != "" {
		c.Notes = p.Notes
	}
	if p.PenName != "" {
		pen, err := s.repo.FindPenByName(ctx, userID, p.PenName)
		if err != nil {
			return failure(fmt.Sprintf("I couldn't find a pen named %q.", p.PenName), err)
		}
		c.PenID = pen.ID
		c.BarnID = pen.BarnID
	}
	c.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateCattle(ctx, *c); err != nil {
		return failure(fmt.Sprintf("Failed to update cattle #%s.", c.TagNumber), err)
	}
	s.recordActivity(ctx, userID, "cattle", fmt.Sprintf("Updated cattle #%s", c.TagNumber))

	return success(fmt.Sprintf("Updated cattle #%s.", c.TagNumber), c)
}

type tagParams struct {
	TagNumber string `json:"tagNumber"`
}

func (s *Service) deleteCattle(ctx context.Context, userID string, params map[string]any) models.ActionResult {
	var p tagParams
	decodeParams(params, &p)
	if p.TagNumber == "" {
		return failure("I need a tag number to know which head to delete.", nil)
	}

	c, err := s.repo.FindCattleByTag(ctx, userID, p.TagNumber)
	if err != nil {
		return failure(fmt.Sprintf("No cattle found with tag #%s.", p.TagNumber), err)
	}
	if err := s.repo.DeleteCattle(ctx, userID, c.ID); err != nil {
		return failure(fmt.Sprintf("Failed to delete cattle #%s.", p.TagNumber), err)
	}
	s.recordActivity(ctx, userID, "cattle", fmt.Sprintf("Deleted cattle #%s", c.TagNumber))

	return success(fmt.Sprintf("Deleted cattle #%s from your records.", c.TagNumber), nil)
}

type cattleQueryParams struct {
	TagNumber string `json:"tagNumber"`
	Breed     string `json:"breed"`
	Status    string `json:"status"`
}

func (s *Service) getCattleInfo(ctx context.Context, userID string, params map[string]any) models.ActionResult {
	var p cattleQueryParams
	decodeParams(params, &p)

	if p.TagNumber != "" {
		c, err := s.repo.FindCattleByTag(ctx, userID, p.TagNumber)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return success(fmt.Sprintf("No cattle found with tag #%s.", p.TagNumber), []models.Cattle{})
			}
			return failure("Failed to look up that cattle record.", err)
		}
		return success(fmt.Sprintf("Found cattle #%s.", c.TagNumber), []models.Cattle{*c})
	}

	cattle, err := s.repo.ListCattle(ctx, userID)
	if err != nil {
		return failure("Failed to load your cattle records.", err)
	}

	filtered := cattle[:0:0]
	for _, c := range cattle {
		if p.Breed != "" && c.Breed != p.Breed {
			continue
		}
		if p.Status != "" && c.Status != p.Status {
			continue
		}
		filtered = append(filtered, c)
	}

	return success(fmt.Sprintf("Found %d matching cattle.", len(filtered)), filtered)
}

func (s *Service) getAllCattle(ctx context.Context, userID string) models.ActionResult {
	cattle, err := s.repo.ListCattle(ctx, userID)
	if err != nil {
		return failure("Failed to load your cattle records.", err)
	}
	return success(fmt.Sprintf("You have %d cattle on record.", len(cattle)), cattle)
}

type weightParams struct {
	TagNumber string  `json:"tagNumber"`
	Weight    float64 `json:"weight"`
	Notes     string  `json:"notes"`
}

func (s *Service) addWeightRecord(ctx context.Context, userID string, params map[string]any) models.ActionResult {
	var p weightParams
	decodeParams(params, &p)
	if p.TagNumber == "" {
		return failure("I need a tag number to record a weight.", nil)
	}
	if p.Weight <= 0 {
		return failure("I need a positive weight value to record.", nil)
	}

	c, err := s.repo.FindCattleByTag(ctx, userID, p.TagNumber)
	if err != nil {
		return failure(fmt.Sprintf("No cattle found with tag #%s.", p.TagNumber), err)
	}

	now := s.now().UTC()
	rec := models.WeightRecord{
		ID:         s.newID(),
		UserID:     userID,
		CattleID:   c.ID,
		Weight:     p.Weight,
		RecordedAt: now,
		Notes:      p.Notes,
	}
	if err := s.repo.InsertWeightRecord(ctx, rec); err != nil {
		return failure("Failed to save the weight record.", err)
	}

	c.CurrentWeight = p.Weight
	c.UpdatedAt = now
	if err := s.repo.UpdateCattle(ctx, *c); err != nil {
		s.logger.Warn("current weight not updated on cattle", zap.String("tag", c.TagNumber), zap.Error(err))
	}
	s.recordActivity(ctx, userID, "weight", fmt.Sprintf("Weighed cattle #%s at %.0f lbs", c.TagNumber, p.Weight))

	return success(fmt.Sprintf("Recorded %.0f lbs for cattle #%s.", p.Weight, c.TagNumber), rec)
}

type addBarnParams struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

func (s *Service) addBarn(ctx context.Context, userID string, params map[string]any) models.ActionResult {
	var p addBarnParams
	decodeParams(params, &p)
	if p.Name == "" {
		p.Name = "New Barn"
	}
	if p.Capacity <= 0 {
		p.Capacity = DefaultBarnCapacity
	}

	b := models.Barn{
		ID:        s.newID(),
		UserID:    userID,
		Name:      p.Name,
		Capacity:  p.Capacity,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.InsertBarn(ctx, b); err != nil {
		return failure("Failed to add the barn.", err)
	}
	s.recordActivity(ctx, userID, "barn", fmt.Sprintf("Added barn %s", b.Name))

	return success(fmt.Sprintf("Added barn %q with capacity %d.", b.Name, b.Capacity), b)
}

type addPenParams struct {
	Name     string `json:"name"`
	BarnName string `json:"barnName"`
	Capacity int    `json:"capacity"`
}

func (s *Service) addPen(ctx context.Context, userID string, params map[string]any) models.ActionResult {
	var p addPenParams
	decodeParams(params, &p)
	if p.Name == "" {
		p.Name = "New Pen"
	}
	if p.Capacity <= 0 {
		p.Capacity = DefaultPenCapacity
	}

	now := s.now().UTC()
	pen := models.Pen{
		ID:           s.newID(),
		UserID:       userID,
		Name:         p.Name,
		Capacity:     p.Capacity,
		CurrentCount: 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if p.BarnName != "" {
		barn, err := s.repo.FindBarnByName(ctx, userID, p.BarnName)
		if err != nil {
			return failure(fmt.Sprintf("I couldn't find a barn named %q.", p.BarnName), err)
		}
		pen.BarnID = barn.ID
	}

	if err := s.repo.InsertPen(ctx, pen); err != nil {
		return failure("Failed to add the pen.", err)
	}
	s.recordActivity(ctx, userID, "pen", fmt.Sprintf("Added pen %s", pen.Name))

	return success(fmt.Sprintf("Added pen %q with capacity %d.", pen.Name, pen.Capacity), pen)
}

type updatePenParams struct {
	Name     string `json:"name"`
	NewName  string `json:"newName"`
	Capacity int    `json:"capacity"`
}

func (s *Service) updatePen(ctx context.Context, userID string, params map[string]any) models.ActionResult {
	var p updatePenParams
	decodeParams(params, &p)
	if p.Name == "" {
		return failure("I need the pen's name to update it.", nil)
	}

	pen, err := s.repo.FindPenByName(ctx, userID, p.Name)
	if err != nil {
		return failure(fmt.Sprintf("I couldn't find a pen named %q.", p.Name), err)
	}
	if p.NewName != "" {
		pen.Name = p.NewName
	}
	if p.Capacity > 0 {
		pen.Capacity = p.Capacity
	}
	pen.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdatePen(ctx, *pen); err != nil {
		return failure(fmt.Sprintf("Failed to update pen %q.", p.Name), err)
	}
	s.recordActivity(ctx, userID, "pen", fmt.Sprintf("Updated pen %s", pen.Name))

	return success(fmt.Sprintf("Updated pen %q.", pen.Name), pen)
}

type penNameParams struct {
	Name string `json:"name"`
}

func (s *Service) deletePen(ctx context.Context, userID string, params map[string]any) models.ActionResult {
	var p penNameParams
	decodeParams(params, &p)
	if p.Name == "" {
		return failure("I need the pen's name to delete it.", nil)
	}

	pen, err := s.repo.FindPenByName(ctx, userID, p.Name)
	if err != nil {
		return failure(fmt.Sprintf("I couldn't find a pen named %q.", p.Name), err)
	}
	if err := s.repo.DeletePen(ctx, userID, pen.ID); err != nil {
		return failure(fmt.Sprintf("Failed to delete pen %q.", p.Name), err)
	}
	s.recordActivity(ctx, userID, "pen", fmt.Sprintf("Deleted pen %s", pen.Name))

	return success(fmt.Sprintf("Deleted pen %q.", pen.Name), nil)
}

func (s *Service) getPenInfo(ctx context.Context, userID string, params map[string]any) models.ActionResult {
	var p penNameParams
	decodeParams(params, &p)

	if p.Name != "" {
		pen, err := s.repo.FindPenByName(ctx, userID, p.Name)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return success(fmt.Sprintf("No pen named %q found.", p.Name), []models.Pen{})
			}
			return failure("Failed to look up that pen.", err)
		}
		return success(fmt.Sprintf("Found pen %q.", pen.Name), []models.Pen{*pen})
	}

	pens, err := s.repo.ListPens(ctx, userID)
	if err != nil {
		return failure("Failed to load your pens.", err)
	}
	return success(fmt.Sprintf("You have %d pens.", len(pens)), pens)
}

// PenCount pairs a pen with its live occupancy, counted from the cattle
// collection rather than the denormalized field.
type PenCount struct {
	PenName  string `json:"penName"`
	Count    int64  `json:"count"`
	Capacity int    `json:"capacity"`
}

func (s *Service) getCattleCountByPen(ctx context.Context, userID string) models.ActionResult {
	pens, err := s.repo.ListPens(ctx, userID)
	if err != nil {
		return failure("Failed to load your pens.", err)
	}

	counts := make([]PenCount, 0, len(pens))
	for _, pen := range pens {
		count, err := s.repo.CountActiveCattleInPen(ctx, userID, pen.ID)
		if err != nil {
			return failure(fmt.Sprintf("Failed counting cattle in pen %q.", pen.Name), err)
		}
		counts = append(counts, PenCount{PenName: pen.Name, Count: count, Capacity: pen.Capacity})
	}

	return success(fmt.Sprintf("Counted cattle across %d pens.", len(counts)), counts)
}

type addMedicationParams struct {
	Name             string  `json:"name"`
	Category         string  `json:"category"`
	Quantity         float64 `json:"quantity"`
	Unit             string  `json:"unit"`
	ReorderPoint     float64 `json:"reorderPoint"`
	CostPerUnit      float64 `json:"costPerUnit"`
	ExpirationDate   string  `json:"expirationDate"`
	WithdrawalPeriod int     `json:"withdrawalPeriod"`
}

func (s *Service) addMedication(ctx context.Context, userID string, params map[string]any) models.ActionResult {
	var p addMedicationParams
	decodeParams(params, &p)
	if p.Name == "" {
		return failure("I need the medication's name to add it to inventory.", nil)
	}
	if p.Category == "" {
		p.Category = models.InventoryCategoryDrug
	}
	if p.ReorderPoint <= 0 {
		p.ReorderPoint = DefaultReorderPoint
	}

	now := s.now().UTC()
	item := models.InventoryItem{
		ID:               s.newID(),
		UserID:           userID,
		Name:             p.Name,
		Category:         p.Category,
		Quantity:         p.Quantity,
		Unit:             p.Unit,
		ReorderPoint:     p.ReorderPoint,
		CostPerUnit:      p.CostPerUnit,
		ExpirationDate:   parseDate(p.ExpirationDate),
		WithdrawalPeriod: p.WithdrawalPeriod,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.InsertInventoryItem(ctx, item); err != nil {
		return failure(fmt.Sprintf("Failed to add %s to inventory.", p.Name), err)
	}
	s.recordActivity(ctx, userID, "inventory", fmt.Sprintf("Added %s to inventory", item.Name))

	return success(fmt.Sprintf("Added %s to your inventory.", item.Name), item)
}

type inventoryQueryParams struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

func (s *Service) getInventoryInfo(ctx context.Context, userID string, params map[string]any) models.ActionResult {
	var p inventoryQueryParams
	decodeParams(params, &p)

	items, err := s.repo.ListInventory(ctx, userID)
	if err != nil {
		return failure("Failed to load your inventory.", err)
	}

	filtered := items[:0:0]
	for _, item := range items {
		if p.Name != "" && item.Name != p.Name {
			continue
		}
		if p.Category != "" && item.Category != p.Category {
			continue
		}
		filtered = append(filtered, item)
	}

	return success(fmt.Sprintf("Found %d inventory items.", len(filtered)), filtered)
}

type addHealthRecordParams struct {
	TagNumber   string  `json:"tagNumber"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	DrugName    string  `json:"drugName"`
	Dosage      string  `json:"dosage"`
	Cost        float64 `json:"cost"`
}

func (s *Service) addHealthRecord(ctx context.Context, userID string, params map[string]any) models.ActionResult {
	var p addHealthRecordParams
	decodeParams(params, &p)
	if p.TagNumber == "" {
		return failure("I need a tag number to record a health event.", nil)
	}
	if p.Type == "" {
		p.Type = "Treatment"
	}

	c, err := s.repo.FindCattleByTag(ctx, userID, p.TagNumber)
	if err != nil {
		return failure(fmt.Sprintf("No cattle found with tag #%s.", p.TagNumber), err)
	}

	now := s.now().UTC()
	rec := models.HealthRecord{
		ID:          s.newID(),
		UserID:      userID,
		CattleID:    c.ID,
		CattleTag:   c.TagNumber,
		Type:        p.Type,
		Description: p.Description,
		Dosage:      p.Dosage,
		Cost:        p.Cost,
		RecordedAt:  now,
	}

	if p.DrugName != "" {
		drug, err := s.repo.FindInventoryItemByName(ctx, userID, p.DrugName)
		if err == nil {
			rec.DrugID = drug.ID
			rec.DrugName = drug.Name
			rec.WithdrawalPeriod = drug.WithdrawalPeriod
			if rec.Cost == 0 {
				rec.Cost = drug.CostPerUnit
			}
			if drug.Quantity > 0 {
				// One dose consumed per treatment. Independent of the record
				// insert below, so a failure in between can leave stock ahead
				// by one; tolerated.
				drug.Quantity--
				drug.UpdatedAt = now
				if err := s.repo.UpdateInventoryItem(ctx, *drug); err != nil {
					s.logger.Warn("inventory not decremented for treatment", zap.String("drug", drug.Name), zap.Error(err))
				}
			}
		} else {
			rec.DrugName = p.DrugName
			s.logger.Debug("treatment drug not in inventory", zap.String("drug", p.DrugName), zap.Error(err))
		}
	}

	if err := s.repo.InsertHealthRecord(ctx, rec); err != nil {
		return failure("Failed to save the health record.", err)
	}

	c.HealthStatus = models.HealthStatusTreatment
	c.UpdatedAt = now
	if err := s.repo.UpdateCattle(ctx, *c); err != nil {
		s.logger.Warn("health status not updated on cattle", zap.String("tag", c.TagNumber), zap.Error(err))
	}
	s.recordActivity(ctx, userID, "health", fmt.Sprintf("Recorded %s for cattle #%s", rec.Type, c.TagNumber))

	return success(fmt.Sprintf("Recorded %s for cattle #%s.", rec.Type, c.TagNumber), rec)
}

type logActivityParams struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

func (s *Service) logActivity(ctx context.Context, userID string, params map[string]any) models.ActionResult {
	var p logActivityParams
	decodeParams(params, &p)
	if p.Description == "" {
		return failure("I need a description of the activity to log.", nil)
	}
	if p.Type == "" {
		p.Type = "note"
	}

	act := models.Activity{
		ID:          s.newID(),
		UserID:      userID,
		Type:        p.Type,
		Description: p.Description,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.InsertActivity(ctx, act); err != nil {
		return failure("Failed to log the activity.", err)
	}

	return success("Logged the activity.", act)
}

func (s *Service) getFarmSummary(ctx context.Context, userID string) models.ActionResult {
	snap, err := s.summaries.Snapshot(ctx, userID)
	if err != nil {
		return failure("Failed to build the farm summary.", err)
	}
	return success("Here is your farm summary.", snap)
}

// recordActivity appends to the activity feed. Best effort: a failed insert
// never fails the action that triggered it.
func (s *Service) recordActivity(ctx context.Context, userID, kind, description string) {
	act := models.Activity{
		ID:          s.newID(),
		UserID:      userID,
		Type:        kind,
		Description: description,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.InsertActivity(ctx, act); err != nil {
		s.logger.Debug("activity not recorded", zap.String("type", kind), zap.Error(err))
	}
}

func success(message string, data any) models.ActionResult {
	return models.ActionResult{Success: true, Message: message, Data: data}
}

func failure(message string, err error) models.ActionResult {
	res := models.ActionResult{Success: false, Message: message}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

// decodeParams round-trips the loose params map through JSON into a typed
// struct. Fields the model got wrong simply stay at their zero value and pick
// up defaults; a malformed map never rejects the action.
func decodeParams(params map[string]any, out any) {
	if len(params) == 0 {
		return
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return
	}
	_ = json.Unmarshal(raw, out)
}

func parseDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{dateFormat, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
