package distribution

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	common_models "go-docdist/internal/common/models"
	"go-docdist/internal/features/document"
	"go-docdist/internal/features/history"
	"go-docdist/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeDistRepo struct {
	dists map[primitive.ObjectID]*Distribution
	// when set, AdvanceStatus reports a lost race regardless of state
	forceConflict bool
}

func newFakeDistRepo() *fakeDistRepo {
	return &fakeDistRepo{dists: make(map[primitive.ObjectID]*Distribution)}
}

func (r *fakeDistRepo) Insert(ctx context.Context, d *Distribution) error {
	r.dists[d.ID] = d
	return nil
}

func (r *fakeDistRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*Distribution, error) {
	d, ok := r.dists[id]
	if !ok || d.DeletedAt != nil {
		return nil, nil
	}
	copied := *d
	return &copied, nil
}

func (r *fakeDistRepo) List(ctx context.Context, filter ListFilter) ([]Distribution, int64, error) {
	var out []Distribution
	for _, d := range r.dists {
		if d.DeletedAt != nil {
			continue
		}
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		out = append(out, *d)
	}
	return out, int64(len(out)), nil
}

func (r *fakeDistRepo) applySet(d *Distribution, set bson.M) {
	if v, ok := set["status"]; ok {
		d.Status = v.(Status)
	}
	if v, ok := set["has_discrepancies"]; ok {
		d.HasDiscrepancies = v.(bool)
	}
	if v, ok := set["type_id"]; ok {
		d.TypeID = v.(primitive.ObjectID)
	}
	if v, ok := set["destination_department_id"]; ok {
		d.DestinationDepartmentID = v.(primitive.ObjectID)
	}
	if v, ok := set["notes"]; ok {
		d.Notes = v.(string)
	}
}

func (r *fakeDistRepo) AdvanceStatus(ctx context.Context, id primitive.ObjectID, from Status, set bson.M) (bool, error) {
	if r.forceConflict {
		return false, nil
	}
	d, ok := r.dists[id]
	if !ok || d.DeletedAt != nil || d.Status != from {
		return false, nil
	}
	r.applySet(d, set)
	return true, nil
}

func (r *fakeDistRepo) UpdateDraft(ctx context.Context, id primitive.ObjectID, set bson.M) (bool, error) {
	d, ok := r.dists[id]
	if !ok || d.DeletedAt != nil || d.Status != StatusDraft {
		return false, nil
	}
	r.applySet(d, set)
	return true, nil
}

func (r *fakeDistRepo) SoftDelete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	d, ok := r.dists[id]
	if !ok || d.DeletedAt != nil || d.Status != StatusDraft {
		return false, nil
	}
	now := time.Now()
	d.DeletedAt = &now
	return true, nil
}

func (r *fakeDistRepo) ListStaleSent(ctx context.Context, before time.Time) ([]Distribution, error) {
	var out []Distribution
	for _, d := range r.dists {
		if d.DeletedAt == nil && d.Status == StatusSent && d.SentAt != nil && d.SentAt.Before(before) {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeDistRepo) EnsureIndexes(ctx context.Context) error { return nil }

type fakeDocRepo struct {
	rows []DistributionDocument
}

func (r *fakeDocRepo) InsertMany(ctx context.Context, docs []DistributionDocument) error {
	r.rows = append(r.rows, docs...)
	return nil
}

func (r *fakeDocRepo) ListByDistribution(ctx context.Context, distributionID primitive.ObjectID) ([]DistributionDocument, error) {
	var out []DistributionDocument
	for _, row := range r.rows {
		if row.DistributionID == distributionID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeDocRepo) SetSenderVerification(ctx context.Context, id primitive.ObjectID, status VerificationStatus, notes string) error {
	for i := range r.rows {
		if r.rows[i].ID == id && !r.rows[i].SenderVerified {
			r.rows[i].SenderVerified = true
			r.rows[i].SenderStatus = status
			r.rows[i].SenderNotes = notes
		}
	}
	return nil
}

func (r *fakeDocRepo) SetReceiverVerification(ctx context.Context, id primitive.ObjectID, status VerificationStatus, notes string) error {
	for i := range r.rows {
		if r.rows[i].ID == id && !r.rows[i].ReceiverVerified {
			r.rows[i].ReceiverVerified = true
			r.rows[i].ReceiverStatus = status
			r.rows[i].ReceiverNotes = notes
		}
	}
	return nil
}

func (r *fakeDocRepo) DeleteOne(ctx context.Context, distributionID primitive.ObjectID, ref common_models.DocumentRef) (bool, error) {
	for i, row := range r.rows {
		if row.DistributionID == distributionID && row.Ref() == ref {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeDocRepo) DeleteByDistribution(ctx context.Context, distributionID primitive.ObjectID) error {
	var kept []DistributionDocument
	for _, row := range r.rows {
		if row.DistributionID != distributionID {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

func (r *fakeDocRepo) EnsureIndexes(ctx context.Context) error { return nil }

type fakeCounter struct {
	seqs map[string]int64
}

func (c *fakeCounter) Next(ctx context.Context, year int, departmentCode, typeCode string) (int64, error) {
	if c.seqs == nil {
		c.seqs = make(map[string]int64)
	}
	key := fmt.Sprintf("%d|%s|%s", year, departmentCode, typeCode)
	c.seqs[key]++
	return c.seqs[key], nil
}

func (c *fakeCounter) EnsureIndexes(ctx context.Context) error { return nil }

type fakeGateway struct {
	locations  map[common_models.DocumentRef]string
	companions map[primitive.ObjectID][]document.Companion
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		locations:  make(map[common_models.DocumentRef]string),
		companions: make(map[primitive.ObjectID][]document.Companion),
	}
}

func (g *fakeGateway) Exists(ctx context.Context, ref common_models.DocumentRef) (bool, error) {
	_, ok := g.locations[ref]
	return ok, nil
}

func (g *fakeGateway) CurrentLocation(ctx context.Context, ref common_models.DocumentRef) (string, error) {
	loc, ok := g.locations[ref]
	if !ok {
		return "", errors.New("document not found")
	}
	return loc, nil
}

func (g *fakeGateway) Relocate(ctx context.Context, ref common_models.DocumentRef, locationCode string) error {
	if _, ok := g.locations[ref]; !ok {
		return errors.New("document not found")
	}
	g.locations[ref] = locationCode
	return nil
}

func (g *fakeGateway) Companions(ctx context.Context, invoiceID primitive.ObjectID) ([]document.Companion, error) {
	return g.companions[invoiceID], nil
}

type fakeDepartments struct {
	codes map[primitive.ObjectID]string
}

func (f *fakeDepartments) LocationCode(ctx context.Context, id primitive.ObjectID) (string, error) {
	code, ok := f.codes[id]
	if !ok {
		return "", fmt.Errorf("department %s not found", id.Hex())
	}
	return code, nil
}

type fakeTypes struct {
	codes map[primitive.ObjectID]string
}

func (f *fakeTypes) Code(ctx context.Context, id primitive.ObjectID) (string, error) {
	code, ok := f.codes[id]
	if !ok {
		return "", fmt.Errorf("distribution type %s not found", id.Hex())
	}
	return code, nil
}

type recordingHistory struct {
	entries []history.Entry
}

func (r *recordingHistory) Record(ctx context.Context, entry history.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *recordingHistory) actions() []history.Action {
	var out []history.Action
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

type recordingNotifier struct {
	actions []history.Action
}

func (n *recordingNotifier) DistributionEvent(ctx context.Context, d *Distribution, action history.Action, actorID string) {
	n.actions = append(n.actions, action)
}

// passTx runs the function directly, no transaction semantics.
type passTx struct{}

func (passTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type testEnv struct {
	repo     *fakeDistRepo
	docs     *fakeDocRepo
	gateway  *fakeGateway
	history  *recordingHistory
	notifier *recordingNotifier
	svc      DistributionService

	originDept primitive.ObjectID
	destDept   primitive.ObjectID
	typeID     primitive.ObjectID
}

func newTestEnv() *testEnv {
	env := &testEnv{
		repo:       newFakeDistRepo(),
		docs:       &fakeDocRepo{},
		gateway:    newFakeGateway(),
		history:    &recordingHistory{},
		notifier:   &recordingNotifier{},
		originDept: primitive.NewObjectID(),
		destDept:   primitive.NewObjectID(),
		typeID:     primitive.NewObjectID(),
	}
	env.svc = NewDistributionService(
		env.repo,
		env.docs,
		NewNumberGenerator(&fakeCounter{}),
		env.gateway,
		&fakeDepartments{codes: map[primitive.ObjectID]string{
			env.originDept: "FIN",
			env.destDept:   "ACC",
		}},
		&fakeTypes{codes: map[primitive.ObjectID]string{
			env.typeID: "INV",
		}},
		env.history,
		env.notifier,
		passTx{},
		zap.NewNop(),
	)
	return env
}

func (e *testEnv) actorCtx(departmentID primitive.ObjectID) context.Context {
	return context.WithValue(context.Background(), utils.UserClaimsKey, &utils.UserClaims{
		UserID:       primitive.NewObjectID().Hex(),
		DepartmentID: departmentID.Hex(),
	})
}

func (e *testEnv) addInvoice(locationCode string) common_models.DocumentRef {
	ref := common_models.DocumentRef{
		Kind:       common_models.DocumentKindInvoice,
		DocumentID: primitive.NewObjectID(),
	}
	e.gateway.locations[ref] = locationCode
	return ref
}

func (e *testEnv) addCompanion(invoiceID primitive.ObjectID, locationCode string) common_models.DocumentRef {
	ref := common_models.DocumentRef{
		Kind:       common_models.DocumentKindSupporting,
		DocumentID: primitive.NewObjectID(),
	}
	e.gateway.locations[ref] = locationCode
	e.gateway.companions[invoiceID] = append(e.gateway.companions[invoiceID], document.Companion{
		Ref:          ref,
		LocationCode: locationCode,
	})
	return ref
}

func (e *testEnv) createDraft(t *testing.T, refs ...common_models.DocumentRef) *CreateResult {
	t.Helper()
	ids := make([]primitive.ObjectID, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.DocumentID)
	}
	result, err := e.svc.Create(e.actorCtx(e.originDept), CreateInput{
		TypeID:                  e.typeID,
		DocumentKind:            common_models.DocumentKindInvoice,
		DestinationDepartmentID: e.destDept,
		DocumentIDs:             ids,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return result
}

func verifyAll(docs []DistributionDocument, status VerificationStatus) VerificationInput {
	var input VerificationInput
	for _, doc := range docs {
		input.Entries = append(input.Entries, VerificationEntry{
			DocumentKind: doc.DocumentKind,
			DocumentID:   doc.DocumentID,
			Status:       status,
		})
	}
	return input
}

func TestCreateGeneratesScopedNumber(t *testing.T) {
	env := newTestEnv()
	inv := env.addInvoice("FIN")

	result := env.createDraft(t, inv)

	want := fmt.Sprintf("%02d/FIN/INV/0001", time.Now().Year()%100)
	if result.Distribution.Number != want {
		t.Errorf("Expected number %s, got %s", want, result.Distribution.Number)
	}
	if result.Distribution.Status != StatusDraft {
		t.Errorf("Expected draft status, got %s", result.Distribution.Status)
	}
	if len(result.Documents) != 1 {
		t.Errorf("Expected 1 document, got %d", len(result.Documents))
	}
	if len(env.history.entries) != 1 || env.history.entries[0].Action != history.ActionCreated {
		t.Errorf("Expected one created history entry, got %v", env.history.actions())
	}

	// Same scope keeps counting up.
	second := env.createDraft(t, env.addInvoice("FIN"))
	want = fmt.Sprintf("%02d/FIN/INV/0002", time.Now().Year()%100)
	if second.Distribution.Number != want {
		t.Errorf("Expected number %s, got %s", want, second.Distribution.Number)
	}
}

func TestCreateAutoIncludesColocatedCompanions(t *testing.T) {
	env := newTestEnv()
	inv := env.addInvoice("FIN")
	colocated := env.addCompanion(inv.DocumentID, "FIN")
	elsewhere := env.addCompanion(inv.DocumentID, "WH1")

	result := env.createDraft(t, inv)

	if len(result.Documents) != 2 {
		t.Fatalf("Expected invoice plus colocated companion, got %d documents", len(result.Documents))
	}
	found := false
	for _, doc := range result.Documents {
		if doc.Ref() == colocated {
			found = true
		}
		if doc.Ref() == elsewhere {
			t.Errorf("Companion at another location must not be included")
		}
	}
	if !found {
		t.Errorf("Colocated companion was not auto-included")
	}
	if len(result.Excluded) != 1 || result.Excluded[0].Ref != elsewhere {
		t.Errorf("Expected the far companion in the excluded list, got %+v", result.Excluded)
	}
}

func TestCreateRejectsDocumentNotAtOrigin(t *testing.T) {
	env := newTestEnv()
	inv := env.addInvoice("WH1")

	_, err := env.svc.Create(env.actorCtx(env.originDept), CreateInput{
		TypeID:                  env.typeID,
		DocumentKind:            common_models.DocumentKindInvoice,
		DestinationDepartmentID: env.destDept,
		DocumentIDs:             []primitive.ObjectID{inv.DocumentID},
	})

	var precond *PreconditionError
	if !errors.As(err, &precond) {
		t.Fatalf("Expected PreconditionError, got %v", err)
	}
}

func TestFullLifecycle(t *testing.T) {
	env := newTestEnv()
	inv := env.addInvoice("FIN")
	result := env.createDraft(t, inv)
	id := result.Distribution.ID

	senderCtx := env.actorCtx(env.originDept)
	receiverCtx := env.actorCtx(env.destDept)

	dist, err := env.svc.VerifySender(senderCtx, id, verifyAll(result.Documents, VerificationVerified))
	if err != nil {
		t.Fatalf("VerifySender failed: %v", err)
	}
	if dist.Status != StatusVerifiedBySender {
		t.Errorf("Expected verified_by_sender, got %s", dist.Status)
	}

	if dist, err = env.svc.Send(senderCtx, id); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if dist.Status != StatusSent {
		t.Errorf("Expected sent, got %s", dist.Status)
	}

	if dist, err = env.svc.Receive(receiverCtx, id); err != nil {
		t.Fatalf("Receive failed: %v", err)
	}
	if dist.Status != StatusReceived {
		t.Errorf("Expected received, got %s", dist.Status)
	}
	if loc := env.gateway.locations[inv]; loc != "ACC" {
		t.Errorf("Expected document relocated to ACC on receive, got %s", loc)
	}

	docs, _ := env.docs.ListByDistribution(context.Background(), id)
	if dist, err = env.svc.VerifyReceiver(receiverCtx, id, verifyAll(docs, VerificationVerified)); err != nil {
		t.Fatalf("VerifyReceiver failed: %v", err)
	}
	if dist.Status != StatusVerifiedByReceiver {
		t.Errorf("Expected verified_by_receiver, got %s", dist.Status)
	}
	if dist.HasDiscrepancies {
		t.Errorf("Clean verification must not flag discrepancies")
	}

	if dist, err = env.svc.Complete(receiverCtx, id); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if dist.Status != StatusCompleted {
		t.Errorf("Expected completed, got %s", dist.Status)
	}

	wantActions := []history.Action{
		history.ActionCreated,
		history.ActionVerifiedBySender,
		history.ActionSent,
		history.ActionReceived,
		history.ActionVerifiedByReceiver,
		history.ActionCompleted,
	}
	got := env.history.actions()
	if len(got) != len(wantActions) {
		t.Fatalf("Expected %d history entries, got %d: %v", len(wantActions), len(got), got)
	}
	for i := range wantActions {
		if got[i] != wantActions[i] {
			t.Errorf("History entry %d: expected %s, got %s", i, wantActions[i], got[i])
		}
	}
	if len(env.notifier.actions) != len(wantActions) {
		t.Errorf("Expected %d notifications, got %d", len(wantActions), len(env.notifier.actions))
	}
}

func TestVerifySenderRequiresFullCoverage(t *testing.T) {
	env := newTestEnv()
	first := env.addInvoice("FIN")
	second := env.addInvoice("FIN")
	result := env.createDraft(t, first, second)

	input := VerificationInput{Entries: []VerificationEntry{{
		DocumentKind: first.Kind,
		DocumentID:   first.DocumentID,
		Status:       VerificationVerified,
	}}}
	_, err := env.svc.VerifySender(env.actorCtx(env.originDept), result.Distribution.ID, input)

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("Expected ValidationError for partial coverage, got %v", err)
	}
}

func TestVerifySenderRejectsUnassociatedDocument(t *testing.T) {
	env := newTestEnv()
	inv := env.addInvoice("FIN")
	stranger := env.addInvoice("FIN")
	result := env.createDraft(t, inv)

	input := verifyAll(result.Documents, VerificationVerified)
	input.Entries = append(input.Entries, VerificationEntry{
		DocumentKind: stranger.Kind,
		DocumentID:   stranger.DocumentID,
		Status:       VerificationVerified,
	})
	_, err := env.svc.VerifySender(env.actorCtx(env.originDept), result.Distribution.ID, input)

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("Expected ValidationError for unassociated document, got %v", err)
	}
}

func TestVerifyReceiverDiscrepancyRequiresConfirmation(t *testing.T) {
	env := newTestEnv()
	inv := env.addInvoice("FIN")
	result := env.createDraft(t, inv)
	id := result.Distribution.ID

	senderCtx := env.actorCtx(env.originDept)
	receiverCtx := env.actorCtx(env.destDept)
	mustOK := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}
	_, err := env.svc.VerifySender(senderCtx, id, verifyAll(result.Documents, VerificationVerified))
	mustOK(err)
	_, err = env.svc.Send(senderCtx, id)
	mustOK(err)
	_, err = env.svc.Receive(receiverCtx, id)
	mustOK(err)

	docs, _ := env.docs.ListByDistribution(context.Background(), id)
	input := verifyAll(docs, VerificationMissing)

	_, err = env.svc.VerifyReceiver(receiverCtx, id, input)
	var confirmation *DiscrepancyConfirmationError
	if !errors.As(err, &confirmation) {
		t.Fatalf("Expected DiscrepancyConfirmationError, got %v", err)
	}
	if len(confirmation.Documents) != 1 || confirmation.Documents[0] != inv {
		t.Errorf("Expected flagged invoice in the error, got %+v", confirmation.Documents)
	}

	// Distribution must be untouched by the rejected attempt.
	dist, _, err := env.svc.Get(receiverCtx, id)
	mustOK(err)
	if dist.Status != StatusReceived {
		t.Errorf("Rejected verification must not advance status, got %s", dist.Status)
	}

	// Resubmitting with the confirmation proceeds.
	input.AcceptDiscrepancies = true
	dist, err = env.svc.VerifyReceiver(receiverCtx, id, input)
	mustOK(err)
	if dist.Status != StatusVerifiedByReceiver {
		t.Errorf("Expected verified_by_receiver, got %s", dist.Status)
	}
	if !dist.HasDiscrepancies {
		t.Errorf("Expected has_discrepancies to be set")
	}

	sawDiscrepancyEntry := false
	for _, action := range env.history.actions() {
		if action == history.ActionDiscrepancy {
			sawDiscrepancyEntry = true
		}
	}
	if !sawDiscrepancyEntry {
		t.Errorf("Expected a per-document discrepancy history entry, got %v", env.history.actions())
	}

	items, err := env.svc.DiscrepancySummary(receiverCtx, id)
	mustOK(err)
	if len(items) != 1 || items[0].Status != VerificationMissing {
		t.Errorf("Expected one missing item in the summary, got %+v", items)
	}
}

func TestSendRequiresSenderVerification(t *testing.T) {
	env := newTestEnv()
	result := env.createDraft(t, env.addInvoice("FIN"))

	_, err := env.svc.Send(env.actorCtx(env.originDept), result.Distribution.ID)

	var precond *PreconditionError
	if !errors.As(err, &precond) {
		t.Fatalf("Expected PreconditionError for draft send, got %v", err)
	}
}

func TestReceiveRejectsWrongDepartment(t *testing.T) {
	env := newTestEnv()
	result := env.createDraft(t, env.addInvoice("FIN"))
	id := result.Distribution.ID
	senderCtx := env.actorCtx(env.originDept)

	if _, err := env.svc.VerifySender(senderCtx, id, verifyAll(result.Documents, VerificationVerified)); err != nil {
		t.Fatalf("VerifySender failed: %v", err)
	}
	if _, err := env.svc.Send(senderCtx, id); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	// Origin tries to receive its own distribution.
	_, err := env.svc.Receive(senderCtx, id)
	var precond *PreconditionError
	if !errors.As(err, &precond) {
		t.Fatalf("Expected PreconditionError, got %v", err)
	}
}

func TestUpdateAndDeleteAreDraftOnly(t *testing.T) {
	env := newTestEnv()
	result := env.createDraft(t, env.addInvoice("FIN"))
	id := result.Distribution.ID
	senderCtx := env.actorCtx(env.originDept)

	if _, err := env.svc.VerifySender(senderCtx, id, verifyAll(result.Documents, VerificationVerified)); err != nil {
		t.Fatalf("VerifySender failed: %v", err)
	}

	notes := "changed"
	_, err := env.svc.Update(senderCtx, id, UpdateInput{Notes: &notes})
	var precond *PreconditionError
	if !errors.As(err, &precond) {
		t.Errorf("Expected PreconditionError from Update, got %v", err)
	}

	err = env.svc.Delete(senderCtx, id)
	if !errors.As(err, &precond) {
		t.Errorf("Expected PreconditionError from Delete, got %v", err)
	}
}

func TestDeleteDraftKeepsHistory(t *testing.T) {
	env := newTestEnv()
	result := env.createDraft(t, env.addInvoice("FIN"))
	id := result.Distribution.ID
	senderCtx := env.actorCtx(env.originDept)

	if err := env.svc.Delete(senderCtx, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, _, err := env.svc.Get(senderCtx, id)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("Expected NotFoundError after delete, got %v", err)
	}

	docs, _ := env.docs.ListByDistribution(context.Background(), id)
	if len(docs) != 0 {
		t.Errorf("Expected association rows removed, got %d", len(docs))
	}
	if len(env.history.entries) != 1 {
		t.Errorf("History must survive the delete, got %d entries", len(env.history.entries))
	}
}

func TestConcurrentAdvanceReturnsConflict(t *testing.T) {
	env := newTestEnv()
	result := env.createDraft(t, env.addInvoice("FIN"))

	env.repo.forceConflict = true
	_, err := env.svc.VerifySender(env.actorCtx(env.originDept), result.Distribution.ID, verifyAll(result.Documents, VerificationVerified))

	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Expected ConflictError, got %v", err)
	}
}

func TestAttachAndDetachDraftDocuments(t *testing.T) {
	env := newTestEnv()
	first := env.addInvoice("FIN")
	result := env.createDraft(t, first)
	id := result.Distribution.ID
	senderCtx := env.actorCtx(env.originDept)

	second := env.addInvoice("FIN")
	attach, err := env.svc.AttachDocuments(senderCtx, id, AttachInput{DocumentIDs: []primitive.ObjectID{second.DocumentID}})
	if err != nil {
		t.Fatalf("AttachDocuments failed: %v", err)
	}
	if len(attach.Attached) != 1 {
		t.Fatalf("Expected 1 attached document, got %d", len(attach.Attached))
	}

	// Attaching the same document twice fails.
	_, err = env.svc.AttachDocuments(senderCtx, id, AttachInput{DocumentIDs: []primitive.ObjectID{second.DocumentID}})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Errorf("Expected ValidationError on duplicate attach, got %v", err)
	}

	if err := env.svc.DetachDocument(senderCtx, id, second); err != nil {
		t.Fatalf("DetachDocument failed: %v", err)
	}
	err = env.svc.DetachDocument(senderCtx, id, second)
	if !errors.As(err, &validation) {
		t.Errorf("Expected ValidationError detaching an unassociated document, got %v", err)
	}
}

func TestCreateRejectsSameOriginAndDestination(t *testing.T) {
	env := newTestEnv()
	inv := env.addInvoice("FIN")

	_, err := env.svc.Create(env.actorCtx(env.originDept), CreateInput{
		TypeID:                  env.typeID,
		DocumentKind:            common_models.DocumentKindInvoice,
		DestinationDepartmentID: env.originDept,
		DocumentIDs:             []primitive.ObjectID{inv.DocumentID},
	})

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
}
