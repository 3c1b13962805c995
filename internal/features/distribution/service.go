package distribution

import (
	"context"
	"time"

	common_models "go-docdist/internal/common/models"
	"go-docdist/internal/database"
	"go-docdist/internal/features/document"
	"go-docdist/internal/features/history"
	"go-docdist/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// DocumentGateway is the location capability the engine needs from the
// document stores. *document.Locator satisfies it.
type DocumentGateway interface {
	Exists(ctx context.Context, ref common_models.DocumentRef) (bool, error)
	CurrentLocation(ctx context.Context, ref common_models.DocumentRef) (string, error)
	Relocate(ctx context.Context, ref common_models.DocumentRef, locationCode string) error
	Companions(ctx context.Context, invoiceID primitive.ObjectID) ([]document.Companion, error)
}

type DepartmentFinder interface {
	LocationCode(ctx context.Context, id primitive.ObjectID) (string, error)
}

type TypeFinder interface {
	Code(ctx context.Context, id primitive.ObjectID) (string, error)
}

type HistoryRecorder interface {
	Record(ctx context.Context, entry history.Entry) error
}

// Notifier receives lifecycle events after a transition has committed.
// Delivery is fire-and-forget from the engine's perspective.
type Notifier interface {
	DistributionEvent(ctx context.Context, d *Distribution, action history.Action, actorID string)
}

type CreateInput struct {
	TypeID                  primitive.ObjectID         `json:"type_id"`
	DocumentKind            common_models.DocumentKind `json:"document_kind"`
	DestinationDepartmentID primitive.ObjectID         `json:"destination_department_id"`
	DocumentIDs             []primitive.ObjectID       `json:"document_ids"`
	Notes                   string                     `json:"notes"`
}

type UpdateInput struct {
	TypeID                  primitive.ObjectID `json:"type_id"`
	DestinationDepartmentID primitive.ObjectID `json:"destination_department_id"`
	Notes                   *string            `json:"notes"`
}

type AttachInput struct {
	DocumentIDs []primitive.ObjectID `json:"document_ids"`
}

type VerificationEntry struct {
	DocumentKind common_models.DocumentKind `json:"document_kind"`
	DocumentID   primitive.ObjectID         `json:"document_id"`
	Status       VerificationStatus         `json:"status"`
	Notes        string                     `json:"notes"`
}

type VerificationInput struct {
	Entries []VerificationEntry `json:"entries"`
	Notes   string              `json:"notes"`
	// AcceptDiscrepancies is the explicit acknowledgment required before a
	// verification containing missing/damaged documents is accepted.
	AcceptDiscrepancies bool `json:"accept_discrepancies"`
}

type CreateResult struct {
	Distribution *Distribution          `json:"distribution"`
	Documents    []DistributionDocument `json:"documents"`
	Excluded     []ExcludedCompanion    `json:"excluded_companions,omitempty"`
}

type AttachResult struct {
	Attached []DistributionDocument `json:"attached"`
	Excluded []ExcludedCompanion    `json:"excluded_companions,omitempty"`
}

type DistributionService interface {
	Create(ctx context.Context, input CreateInput) (*CreateResult, error)
	Update(ctx context.Context, id primitive.ObjectID, input UpdateInput) (*Distribution, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	AttachDocuments(ctx context.Context, id primitive.ObjectID, input AttachInput) (*AttachResult, error)
	DetachDocument(ctx context.Context, id primitive.ObjectID, ref common_models.DocumentRef) error

	VerifySender(ctx context.Context, id primitive.ObjectID, input VerificationInput) (*Distribution, error)
	Send(ctx context.Context, id primitive.ObjectID) (*Distribution, error)
	Receive(ctx context.Context, id primitive.ObjectID) (*Distribution, error)
	VerifyReceiver(ctx context.Context, id primitive.ObjectID, input VerificationInput) (*Distribution, error)
	Complete(ctx context.Context, id primitive.ObjectID) (*Distribution, error)

	Get(ctx context.Context, id primitive.ObjectID) (*Distribution, []DistributionDocument, error)
	List(ctx context.Context, filter ListFilter) ([]Distribution, int64, error)
	DiscrepancySummary(ctx context.Context, id primitive.ObjectID) ([]DiscrepancyItem, error)
}

type DistributionServiceImpl struct {
	Repo        DistributionRepository
	DocRepo     DocumentRepository
	Generator   *NumberGenerator
	Documents   DocumentGateway
	Departments DepartmentFinder
	Types       TypeFinder
	History     HistoryRecorder
	Notifier    Notifier
	Tx          database.TxRunner
	Logger      *zap.Logger
}

func NewDistributionService(
	repo DistributionRepository,
	docRepo DocumentRepository,
	generator *NumberGenerator,
	documents DocumentGateway,
	departments DepartmentFinder,
	types TypeFinder,
	historyService HistoryRecorder,
	notifier Notifier,
	tx database.TxRunner,
	logger *zap.Logger,
) DistributionService {
	return &DistributionServiceImpl{
		Repo:        repo,
		DocRepo:     docRepo,
		Generator:   generator,
		Documents:   documents,
		Departments: departments,
		Types:       types,
		History:     historyService,
		Notifier:    notifier,
		Tx:          tx,
		Logger:      logger,
	}
}

func actorFromContext(ctx context.Context) (*utils.UserClaims, error) {
	claims, ok := ctx.Value(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok || claims == nil {
		return nil, preconditionf("missing actor identity")
	}
	return claims, nil
}

func (s *DistributionServiceImpl) Create(ctx context.Context, input CreateInput) (*CreateResult, error) {
	claims, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	originID, err := primitive.ObjectIDFromHex(claims.DepartmentID)
	if err != nil {
		return nil, validationf("actor has no valid department")
	}

	if !input.DocumentKind.Valid() {
		return nil, validationf("invalid document kind %q", input.DocumentKind)
	}
	if input.TypeID.IsZero() {
		return nil, validationf("type_id is required")
	}
	if input.DestinationDepartmentID.IsZero() {
		return nil, validationf("destination_department_id is required")
	}
	if input.DestinationDepartmentID == originID {
		return nil, validationf("origin and destination departments must differ")
	}
	if len(input.DocumentIDs) == 0 {
		return nil, validationf("at least one document is required")
	}

	originCode, err := s.Departments.LocationCode(ctx, originID)
	if err != nil {
		return nil, err
	}
	// Resolve the destination up front so a bad reference fails before any write.
	if _, err := s.Departments.LocationCode(ctx, input.DestinationDepartmentID); err != nil {
		return nil, err
	}
	typeCode, err := s.Types.Code(ctx, input.TypeID)
	if err != nil {
		return nil, err
	}

	refs, excluded, err := s.resolveDocuments(ctx, input.DocumentKind, input.DocumentIDs, originCode)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	number, err := s.Generator.Generate(ctx, now, originCode, typeCode)
	if err != nil {
		return nil, err
	}

	dist := &Distribution{
		ID:                      primitive.NewObjectID(),
		Number:                  number,
		TypeID:                  input.TypeID,
		DocumentKind:            input.DocumentKind,
		OriginDepartmentID:      originID,
		DestinationDepartmentID: input.DestinationDepartmentID,
		Status:                  StatusDraft,
		Notes:                   input.Notes,
		CreatedBy:               claims.UserID,
		CreatedAt:               now,
		UpdatedAt:               now,
	}

	rows := make([]DistributionDocument, 0, len(refs))
	for _, ref := range refs {
		rows = append(rows, DistributionDocument{
			ID:             primitive.NewObjectID(),
			DistributionID: dist.ID,
			DocumentKind:   ref.Kind,
			DocumentID:     ref.DocumentID,
			CreatedAt:      now,
		})
	}

	err = s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.Repo.Insert(txCtx, dist); err != nil {
			return err
		}
		if err := s.DocRepo.InsertMany(txCtx, rows); err != nil {
			return err
		}
		return s.History.Record(txCtx, history.Entry{
			DistributionID: dist.ID,
			Action:         history.ActionCreated,
			ActorID:        claims.UserID,
			Metadata: map[string]any{
				"number":         dist.Number,
				"document_count": len(rows),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("distribution created",
		zap.String("number", dist.Number),
		zap.String("actor_id", claims.UserID),
	)
	s.notify(ctx, dist, history.ActionCreated, claims.UserID)

	return &CreateResult{Distribution: dist, Documents: rows, Excluded: excluded}, nil
}

// resolveDocuments validates the requested documents against the origin
// location and folds in companion supporting documents. Companions whose
// location does not match the origin are excluded with a warning.
func (s *DistributionServiceImpl) resolveDocuments(
	ctx context.Context,
	kind common_models.DocumentKind,
	ids []primitive.ObjectID,
	originCode string,
) ([]common_models.DocumentRef, []ExcludedCompanion, error) {
	seen := make(map[common_models.DocumentRef]bool)
	refs := make([]common_models.DocumentRef, 0, len(ids))

	for _, id := range ids {
		ref := common_models.DocumentRef{Kind: kind, DocumentID: id}
		if seen[ref] {
			return nil, nil, validationf("document %s listed more than once", id.Hex())
		}
		seen[ref] = true

		exists, err := s.Documents.Exists(ctx, ref)
		if err != nil {
			return nil, nil, err
		}
		if !exists {
			return nil, nil, validationf("%s %s does not exist", ref.Kind, id.Hex())
		}
		loc, err := s.Documents.CurrentLocation(ctx, ref)
		if err != nil {
			return nil, nil, err
		}
		if loc != originCode {
			return nil, nil, preconditionf("%s %s is at %s, not at origin %s", ref.Kind, id.Hex(), loc, originCode)
		}
		refs = append(refs, ref)
	}

	var excluded []ExcludedCompanion
	if kind == common_models.DocumentKindInvoice {
		for _, id := range ids {
			companions, err := s.Documents.Companions(ctx, id)
			if err != nil {
				return nil, nil, err
			}
			for _, c := range companions {
				if seen[c.Ref] {
					continue
				}
				seen[c.Ref] = true
				if c.LocationCode != originCode {
					s.Logger.Warn("companion document excluded: not at origin",
						zap.String("document_id", c.Ref.DocumentID.Hex()),
						zap.String("location", c.LocationCode),
						zap.String("origin", originCode),
					)
					excluded = append(excluded, ExcludedCompanion{
						Ref:          c.Ref,
						LocationCode: c.LocationCode,
						Reason:       "current location does not match distribution origin",
					})
					continue
				}
				refs = append(refs, c.Ref)
			}
		}
	}

	return refs, excluded, nil
}

func (s *DistributionServiceImpl) Update(ctx context.Context, id primitive.ObjectID, input UpdateInput) (*Distribution, error) {
	claims, dist, err := s.loadForActor(ctx, id)
	if err != nil {
		return nil, err
	}
	if dist.Status != StatusDraft {
		return nil, preconditionf("only draft distributions can be updated, current status is %s", dist.Status)
	}
	if err := s.requireDepartment(claims, dist.OriginDepartmentID, "update"); err != nil {
		return nil, err
	}

	set := bson.M{}
	changes := map[string]any{}
	if !input.TypeID.IsZero() && input.TypeID != dist.TypeID {
		if _, err := s.Types.Code(ctx, input.TypeID); err != nil {
			return nil, err
		}
		set["type_id"] = input.TypeID
		changes["type_id"] = map[string]any{"old": dist.TypeID.Hex(), "new": input.TypeID.Hex()}
		dist.TypeID = input.TypeID
	}
	if !input.DestinationDepartmentID.IsZero() && input.DestinationDepartmentID != dist.DestinationDepartmentID {
		if input.DestinationDepartmentID == dist.OriginDepartmentID {
			return nil, validationf("origin and destination departments must differ")
		}
		if _, err := s.Departments.LocationCode(ctx, input.DestinationDepartmentID); err != nil {
			return nil, err
		}
		set["destination_department_id"] = input.DestinationDepartmentID
		changes["destination_department_id"] = map[string]any{
			"old": dist.DestinationDepartmentID.Hex(),
			"new": input.DestinationDepartmentID.Hex(),
		}
		dist.DestinationDepartmentID = input.DestinationDepartmentID
	}
	if input.Notes != nil && *input.Notes != dist.Notes {
		set["notes"] = *input.Notes
		changes["notes"] = map[string]any{"old": dist.Notes, "new": *input.Notes}
		dist.Notes = *input.Notes
	}
	if len(set) == 0 {
		return dist, nil
	}

	err = s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		ok, err := s.Repo.UpdateDraft(txCtx, id, set)
		if err != nil {
			return err
		}
		if !ok {
			return conflictf("distribution %s is no longer a draft", id.Hex())
		}
		return s.History.Record(txCtx, history.Entry{
			DistributionID: id,
			Action:         history.ActionUpdated,
			ActorID:        claims.UserID,
			Metadata:       map[string]any{"changes": changes},
		})
	})
	if err != nil {
		return nil, err
	}
	return dist, nil
}

func (s *DistributionServiceImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	claims, dist, err := s.loadForActor(ctx, id)
	if err != nil {
		return err
	}
	if dist.Status != StatusDraft {
		return preconditionf("only draft distributions can be deleted, current status is %s", dist.Status)
	}
	if err := s.requireDepartment(claims, dist.OriginDepartmentID, "delete"); err != nil {
		return err
	}

	// History is deliberately kept; only the association rows cascade.
	return s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		ok, err := s.Repo.SoftDelete(txCtx, id)
		if err != nil {
			return err
		}
		if !ok {
			return conflictf("distribution %s is no longer a draft", id.Hex())
		}
		return s.DocRepo.DeleteByDistribution(txCtx, id)
	})
}

func (s *DistributionServiceImpl) AttachDocuments(ctx context.Context, id primitive.ObjectID, input AttachInput) (*AttachResult, error) {
	claims, dist, err := s.loadForActor(ctx, id)
	if err != nil {
		return nil, err
	}
	if dist.Status != StatusDraft {
		return nil, preconditionf("documents can only be attached while draft, current status is %s", dist.Status)
	}
	if err := s.requireDepartment(claims, dist.OriginDepartmentID, "attach documents to"); err != nil {
		return nil, err
	}
	if len(input.DocumentIDs) == 0 {
		return nil, validationf("at least one document is required")
	}

	originCode, err := s.Departments.LocationCode(ctx, dist.OriginDepartmentID)
	if err != nil {
		return nil, err
	}

	refs, excluded, err := s.resolveDocuments(ctx, dist.DocumentKind, input.DocumentIDs, originCode)
	if err != nil {
		return nil, err
	}

	existing, err := s.DocRepo.ListByDistribution(ctx, id)
	if err != nil {
		return nil, err
	}
	attached := make(map[common_models.DocumentRef]bool, len(existing))
	for _, doc := range existing {
		attached[doc.Ref()] = true
	}

	now := time.Now()
	rows := make([]DistributionDocument, 0, len(refs))
	refMetadata := make([]any, 0, len(refs))
	for _, ref := range refs {
		if attached[ref] {
			return nil, validationf("%s %s is already attached", ref.Kind, ref.DocumentID.Hex())
		}
		rows = append(rows, DistributionDocument{
			ID:             primitive.NewObjectID(),
			DistributionID: id,
			DocumentKind:   ref.Kind,
			DocumentID:     ref.DocumentID,
			CreatedAt:      now,
		})
		refMetadata = append(refMetadata, map[string]any{
			"document_kind": string(ref.Kind),
			"document_id":   ref.DocumentID.Hex(),
		})
	}

	err = s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.DocRepo.InsertMany(txCtx, rows); err != nil {
			return err
		}
		return s.History.Record(txCtx, history.Entry{
			DistributionID: id,
			Action:         history.ActionAttached,
			ActorID:        claims.UserID,
			Metadata:       map[string]any{"documents": refMetadata},
		})
	})
	if err != nil {
		return nil, err
	}
	return &AttachResult{Attached: rows, Excluded: excluded}, nil
}

func (s *DistributionServiceImpl) DetachDocument(ctx context.Context, id primitive.ObjectID, ref common_models.DocumentRef) error {
	claims, dist, err := s.loadForActor(ctx, id)
	if err != nil {
		return err
	}
	if dist.Status != StatusDraft {
		return preconditionf("documents can only be detached while draft, current status is %s", dist.Status)
	}
	if err := s.requireDepartment(claims, dist.OriginDepartmentID, "detach documents from"); err != nil {
		return err
	}
	if !ref.Kind.Valid() {
		return validationf("invalid document kind %q", ref.Kind)
	}

	return s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		removed, err := s.DocRepo.DeleteOne(txCtx, id, ref)
		if err != nil {
			return err
		}
		if !removed {
			return validationf("%s %s is not associated with this distribution", ref.Kind, ref.DocumentID.Hex())
		}
		return s.History.Record(txCtx, history.Entry{
			DistributionID: id,
			Action:         history.ActionDetached,
			ActorID:        claims.UserID,
			Metadata: map[string]any{
				"document_kind": string(ref.Kind),
				"document_id":   ref.DocumentID.Hex(),
			},
		})
	})
}

func (s *DistributionServiceImpl) VerifySender(ctx context.Context, id primitive.ObjectID, input VerificationInput) (*Distribution, error) {
	claims, dist, err := s.loadForActor(ctx, id)
	if err != nil {
		return nil, err
	}
	if dist.Status != StatusDraft {
		return nil, preconditionf("sender verification requires draft status, current status is %s", dist.Status)
	}
	if err := s.requireDepartment(claims, dist.OriginDepartmentID, "verify"); err != nil {
		return nil, err
	}

	docs, err := s.DocRepo.ListByDistribution(ctx, id)
	if err != nil {
		return nil, err
	}
	matched, err := matchEntries(docs, input.Entries)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		ok, err := s.Repo.AdvanceStatus(txCtx, id, StatusDraft, bson.M{
			"status":             StatusVerifiedBySender,
			"sender_verified_at": now,
			"sender_verified_by": claims.UserID,
			"sender_notes":       input.Notes,
		})
		if err != nil {
			return err
		}
		if !ok {
			return conflictf("distribution %s was advanced by a concurrent request", id.Hex())
		}
		for rowID, entry := range matched {
			if err := s.DocRepo.SetSenderVerification(txCtx, rowID, entry.Status, entry.Notes); err != nil {
				return err
			}
		}
		return s.History.Record(txCtx, history.Entry{
			DistributionID: id,
			Action:         history.ActionVerifiedBySender,
			ActorID:        claims.UserID,
			Notes:          input.Notes,
			Metadata:       map[string]any{"document_count": len(matched)},
		})
	})
	if err != nil {
		return nil, err
	}

	dist.Status = StatusVerifiedBySender
	dist.SenderVerifiedAt = &now
	dist.SenderVerifiedBy = claims.UserID
	dist.SenderNotes = input.Notes
	s.notify(ctx, dist, history.ActionVerifiedBySender, claims.UserID)
	return dist, nil
}

func (s *DistributionServiceImpl) Send(ctx context.Context, id primitive.ObjectID) (*Distribution, error) {
	claims, dist, err := s.loadForActor(ctx, id)
	if err != nil {
		return nil, err
	}
	if dist.Status != StatusVerifiedBySender {
		return nil, preconditionf("send requires verified_by_sender status, current status is %s", dist.Status)
	}
	if err := s.requireDepartment(claims, dist.OriginDepartmentID, "send"); err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		ok, err := s.Repo.AdvanceStatus(txCtx, id, StatusVerifiedBySender, bson.M{
			"status":  StatusSent,
			"sent_at": now,
		})
		if err != nil {
			return err
		}
		if !ok {
			return conflictf("distribution %s was advanced by a concurrent request", id.Hex())
		}
		return s.History.Record(txCtx, history.Entry{
			DistributionID: id,
			Action:         history.ActionSent,
			ActorID:        claims.UserID,
		})
	})
	if err != nil {
		return nil, err
	}

	dist.Status = StatusSent
	dist.SentAt = &now
	s.notify(ctx, dist, history.ActionSent, claims.UserID)
	return dist, nil
}

func (s *DistributionServiceImpl) Receive(ctx context.Context, id primitive.ObjectID) (*Distribution, error) {
	claims, dist, err := s.loadForActor(ctx, id)
	if err != nil {
		return nil, err
	}
	if dist.Status != StatusSent {
		return nil, preconditionf("receive requires sent status, current status is %s", dist.Status)
	}
	if err := s.requireDepartment(claims, dist.DestinationDepartmentID, "receive"); err != nil {
		return nil, err
	}

	destCode, err := s.Departments.LocationCode(ctx, dist.DestinationDepartmentID)
	if err != nil {
		return nil, err
	}
	docs, err := s.DocRepo.ListByDistribution(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		ok, err := s.Repo.AdvanceStatus(txCtx, id, StatusSent, bson.M{
			"status":      StatusReceived,
			"received_at": now,
		})
		if err != nil {
			return err
		}
		if !ok {
			return conflictf("distribution %s was advanced by a concurrent request", id.Hex())
		}

		// Every document moves to the destination in the same transaction as
		// the status change; a failure part-way aborts the whole receive.
		moves := make([]any, 0, len(docs))
		for _, doc := range docs {
			from, err := s.Documents.CurrentLocation(txCtx, doc.Ref())
			if err != nil {
				return err
			}
			if err := s.Documents.Relocate(txCtx, doc.Ref(), destCode); err != nil {
				return err
			}
			moves = append(moves, map[string]any{
				"document_kind": string(doc.DocumentKind),
				"document_id":   doc.DocumentID.Hex(),
				"from":          from,
				"to":            destCode,
			})
		}
		return s.History.Record(txCtx, history.Entry{
			DistributionID: id,
			Action:         history.ActionReceived,
			ActorID:        claims.UserID,
			Metadata:       map[string]any{"moves": moves},
		})
	})
	if err != nil {
		return nil, err
	}

	dist.Status = StatusReceived
	dist.ReceivedAt = &now
	s.notify(ctx, dist, history.ActionReceived, claims.UserID)
	return dist, nil
}

func (s *DistributionServiceImpl) VerifyReceiver(ctx context.Context, id primitive.ObjectID, input VerificationInput) (*Distribution, error) {
	claims, dist, err := s.loadForActor(ctx, id)
	if err != nil {
		return nil, err
	}
	if dist.Status != StatusReceived {
		return nil, preconditionf("receiver verification requires received status, current status is %s", dist.Status)
	}
	if err := s.requireDepartment(claims, dist.DestinationDepartmentID, "verify"); err != nil {
		return nil, err
	}

	docs, err := s.DocRepo.ListByDistribution(ctx, id)
	if err != nil {
		return nil, err
	}
	matched, err := matchEntries(docs, input.Entries)
	if err != nil {
		return nil, err
	}

	rowByID := make(map[primitive.ObjectID]DistributionDocument, len(docs))
	for _, doc := range docs {
		rowByID[doc.ID] = doc
	}
	var flagged []DistributionDocument
	flaggedEntries := make(map[primitive.ObjectID]VerificationEntry)
	for rowID, entry := range matched {
		if entry.Status.Discrepant() {
			flagged = append(flagged, rowByID[rowID])
			flaggedEntries[rowID] = entry
		}
	}

	// Two-phase confirmation: discrepancies are never accepted silently.
	if len(flagged) > 0 && !input.AcceptDiscrepancies {
		refs := make([]common_models.DocumentRef, 0, len(flagged))
		for _, doc := range flagged {
			refs = append(refs, doc.Ref())
		}
		return nil, &DiscrepancyConfirmationError{Documents: refs}
	}

	hasDiscrepancies := len(flagged) > 0
	now := time.Now()
	err = s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		ok, err := s.Repo.AdvanceStatus(txCtx, id, StatusReceived, bson.M{
			"status":               StatusVerifiedByReceiver,
			"receiver_verified_at": now,
			"receiver_verified_by": claims.UserID,
			"receiver_notes":       input.Notes,
			"has_discrepancies":    hasDiscrepancies,
		})
		if err != nil {
			return err
		}
		if !ok {
			return conflictf("distribution %s was advanced by a concurrent request", id.Hex())
		}
		for rowID, entry := range matched {
			if err := s.DocRepo.SetReceiverVerification(txCtx, rowID, entry.Status, entry.Notes); err != nil {
				return err
			}
		}
		if err := s.History.Record(txCtx, history.Entry{
			DistributionID: id,
			Action:         history.ActionVerifiedByReceiver,
			ActorID:        claims.UserID,
			Notes:          input.Notes,
			Metadata: map[string]any{
				"document_count":    len(matched),
				"has_discrepancies": hasDiscrepancies,
			},
		}); err != nil {
			return err
		}
		// One extra entry per flagged document.
		for rowID, entry := range flaggedEntries {
			doc := rowByID[rowID]
			if err := s.History.Record(txCtx, history.Entry{
				DistributionID: id,
				Action:         history.ActionDiscrepancy,
				ActorID:        claims.UserID,
				Notes:          entry.Notes,
				Metadata: map[string]any{
					"document_kind": string(doc.DocumentKind),
					"document_id":   doc.DocumentID.Hex(),
					"status":        string(entry.Status),
				},
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dist.Status = StatusVerifiedByReceiver
	dist.ReceiverVerifiedAt = &now
	dist.ReceiverVerifiedBy = claims.UserID
	dist.ReceiverNotes = input.Notes
	dist.HasDiscrepancies = hasDiscrepancies
	s.notify(ctx, dist, history.ActionVerifiedByReceiver, claims.UserID)
	return dist, nil
}

func (s *DistributionServiceImpl) Complete(ctx context.Context, id primitive.ObjectID) (*Distribution, error) {
	claims, dist, err := s.loadForActor(ctx, id)
	if err != nil {
		return nil, err
	}
	if dist.Status != StatusVerifiedByReceiver {
		return nil, preconditionf("complete requires verified_by_receiver status, current status is %s", dist.Status)
	}
	if err := s.requireDepartment(claims, dist.DestinationDepartmentID, "complete"); err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		ok, err := s.Repo.AdvanceStatus(txCtx, id, StatusVerifiedByReceiver, bson.M{
			"status":       StatusCompleted,
			"completed_at": now,
		})
		if err != nil {
			return err
		}
		if !ok {
			return conflictf("distribution %s was advanced by a concurrent request", id.Hex())
		}
		return s.History.Record(txCtx, history.Entry{
			DistributionID: id,
			Action:         history.ActionCompleted,
			ActorID:        claims.UserID,
		})
	})
	if err != nil {
		return nil, err
	}

	dist.Status = StatusCompleted
	dist.CompletedAt = &now
	s.notify(ctx, dist, history.ActionCompleted, claims.UserID)
	return dist, nil
}

func (s *DistributionServiceImpl) Get(ctx context.Context, id primitive.ObjectID) (*Distribution, []DistributionDocument, error) {
	dist, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if dist == nil {
		return nil, nil, notFoundf("distribution %s not found", id.Hex())
	}
	docs, err := s.DocRepo.ListByDistribution(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return dist, docs, nil
}

func (s *DistributionServiceImpl) List(ctx context.Context, filter ListFilter) ([]Distribution, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, validationf("invalid status filter %q", filter.Status)
	}
	return s.Repo.List(ctx, filter)
}

func (s *DistributionServiceImpl) DiscrepancySummary(ctx context.Context, id primitive.ObjectID) ([]DiscrepancyItem, error) {
	dist, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dist == nil {
		return nil, notFoundf("distribution %s not found", id.Hex())
	}
	docs, err := s.DocRepo.ListByDistribution(ctx, id)
	if err != nil {
		return nil, err
	}
	items := make([]DiscrepancyItem, 0)
	for _, doc := range docs {
		if doc.ReceiverVerified && doc.ReceiverStatus.Discrepant() {
			items = append(items, DiscrepancyItem{
				Ref:    doc.Ref(),
				Status: doc.ReceiverStatus,
				Notes:  doc.ReceiverNotes,
			})
		}
	}
	return items, nil
}

// loadForActor resolves the actor claims and the distribution in one step.
func (s *DistributionServiceImpl) loadForActor(ctx context.Context, id primitive.ObjectID) (*utils.UserClaims, *Distribution, error) {
	claims, err := actorFromContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	dist, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if dist == nil {
		return nil, nil, notFoundf("distribution %s not found", id.Hex())
	}
	return claims, dist, nil
}

func (s *DistributionServiceImpl) requireDepartment(claims *utils.UserClaims, departmentID primitive.ObjectID, verb string) error {
	if claims.DepartmentID != departmentID.Hex() {
		return preconditionf("actor's department is not allowed to %s this distribution", verb)
	}
	return nil
}

func (s *DistributionServiceImpl) notify(ctx context.Context, dist *Distribution, action history.Action, actorID string) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.DistributionEvent(ctx, dist, action, actorID)
}

// matchEntries enforces exact coverage: every associated document must have
// exactly one entry, and no entry may reference an unassociated document.
// Returns entries keyed by association row id.
func matchEntries(docs []DistributionDocument, entries []VerificationEntry) (map[primitive.ObjectID]VerificationEntry, error) {
	if len(entries) == 0 {
		return nil, validationf("a verification entry is required for every document")
	}

	byRef := make(map[common_models.DocumentRef]DistributionDocument, len(docs))
	for _, doc := range docs {
		byRef[doc.Ref()] = doc
	}

	matched := make(map[primitive.ObjectID]VerificationEntry, len(entries))
	for _, entry := range entries {
		if !entry.Status.Valid() {
			return nil, validationf("invalid verification status %q", entry.Status)
		}
		ref := common_models.DocumentRef{Kind: entry.DocumentKind, DocumentID: entry.DocumentID}
		doc, ok := byRef[ref]
		if !ok {
			return nil, validationf("%s %s is not associated with this distribution", ref.Kind, ref.DocumentID.Hex())
		}
		if _, dup := matched[doc.ID]; dup {
			return nil, validationf("duplicate verification entry for %s %s", ref.Kind, ref.DocumentID.Hex())
		}
		matched[doc.ID] = entry
	}
	if len(matched) != len(docs) {
		return nil, validationf("verification covers %d of %d associated documents", len(matched), len(docs))
	}
	return matched, nil
}
