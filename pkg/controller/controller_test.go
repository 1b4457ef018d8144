package controller

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-crudconsole/pkg/client"
	"github.com/goliatone/go-crudconsole/pkg/devserver"
	"github.com/goliatone/go-crudconsole/pkg/model"
	"github.com/goliatone/go-crudconsole/pkg/notify"
	"github.com/goliatone/go-crudconsole/pkg/record"
	"github.com/goliatone/go-crudconsole/pkg/table"
	"github.com/goliatone/go-crudconsole/pkg/testsupport"
	"github.com/goliatone/go-crudconsole/pkg/validation"
	"github.com/goliatone/go-crudconsole/pkg/view"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type harness struct {
	ctrl    *Controller
	form    *view.Memory
	sink    *table.MemorySink
	notes   *notify.Recorder
	calls   *testsupport.CountingClient
	backend *devserver.Server
	baseURL string
}

func newHarness(t *testing.T, name string, confirmer view.Confirmer) *harness {
	t.Helper()

	list := testsupport.Resources(t)
	backend, err := devserver.New(list)
	if err != nil {
		t.Fatalf("devserver: %v", err)
	}
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	var res model.Resource
	for _, candidate := range list {
		if candidate.Name == name {
			res = candidate
		}
	}

	h := &harness{
		form:    view.NewMemory(),
		sink:    &table.MemorySink{},
		notes:   &notify.Recorder{},
		calls:   &testsupport.CountingClient{Next: client.New()},
		backend: backend,
		baseURL: srv.URL + "/api/",
	}
	h.ctrl, err = New(res,
		WithBaseURL(h.baseURL),
		WithClient(h.calls),
		WithForm(h.form),
		WithTable(table.New(res, table.WithSink(h.sink))),
		WithNotifier(h.notes),
		WithConfirmer(confirmer),
	)
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	return h
}

func (h *harness) seed(t *testing.T, recs ...record.Record) {
	t.Helper()
	if err := h.backend.Seed(h.ctrl.Resource().Name, recs...); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func (h *harness) rowIDs() []string {
	var ids []string
	for _, row := range h.sink.Body().Rows {
		if !row.Placeholder {
			ids = append(ids, row.ID)
		}
	}
	return ids
}

func (h *harness) lastNote(t *testing.T) notify.Message {
	t.Helper()
	msg, ok := h.notes.Last()
	if !ok {
		t.Fatalf("expected a notification")
	}
	return msg
}

func teacher(id int64, name, title string) record.Record {
	return record.Record{
		"teacherId": record.IntValue(id),
		"name":      record.StringValue(name),
		"title":     record.StringValue(title),
	}
}

func student(name string, age int64) record.Record {
	return record.Record{
		"name":           record.StringValue(name),
		"gender":         record.StringValue("Female"),
		"age":            record.IntValue(age),
		"enrollmentDate": record.DateValue(time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)),
	}
}

func TestNewRequiresBaseURL(t *testing.T) {
	res := testsupport.Resource(t, "teachers")
	if _, err := New(res); !errors.Is(err, ErrBaseURLRequired) {
		t.Fatalf("err = %v, want ErrBaseURLRequired", err)
	}
	if _, err := New(model.Resource{Name: "broken"}, WithBaseURL("http://x")); err == nil {
		t.Fatalf("expected invalid resource to be rejected")
	}
}

func TestInitStartsInCreateMode(t *testing.T) {
	h := newHarness(t, "teachers", nil)
	h.seed(t, teacher(1, "Ada", "Professor"), teacher(2, "Alan", "Lecturer"))

	if err := h.ctrl.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	if h.ctrl.State().Mode != ModeCreate {
		t.Fatalf("mode = %s", h.ctrl.State().Mode)
	}
	if !h.form.ButtonEnabled(view.ButtonSave) || h.form.ButtonEnabled(view.ButtonUpdate) {
		t.Fatalf("create mode should enable save and disable update")
	}
	if !h.form.InputEnabled("teacherId") {
		t.Fatalf("identity input should be enabled in create mode")
	}
	if diff := cmp.Diff([]string{"1", "2"}, h.rowIDs()); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	if got := h.form.Value("gender"); got != "Male" {
		t.Fatalf("gender select should default to the first option, got %q", got)
	}
}

func TestInitAppliesDefaultFilter(t *testing.T) {
	h := newHarness(t, "students", nil)
	h.seed(t, student("a", 17), student("b", 18), student("c", 21), student("d", 25), student("e", 26))

	if err := h.ctrl.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	if diff := cmp.Diff([]string{"2", "3", "4"}, h.rowIDs()); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	calls := h.calls.Calls()
	last := calls[len(calls)-1]
	if !strings.Contains(last.URL, "maxAge=25") || !strings.Contains(last.URL, "minAge=18") {
		t.Fatalf("reload url = %s", last.URL)
	}
}

func TestCreateRejectsInvalidCreditWithoutRequest(t *testing.T) {
	h := newHarness(t, "courses", nil)
	h.form.SetValue("courseName", "Algebra")
	h.form.SetValue("credit", "15")

	err := h.ctrl.HandleButton(context.Background(), view.ButtonSave)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if n := h.calls.Count(""); n != 0 {
		t.Fatalf("made %d requests, want none", n)
	}
	msg := h.lastNote(t)
	if msg.Level != notify.LevelError || !strings.Contains(msg.Text, "Credit must be between 1 and 10") {
		t.Fatalf("notification = %+v", msg)
	}
	if got := h.form.Value("courseName"); got != "Algebra" {
		t.Fatalf("form should keep its input, got %q", got)
	}
}

func TestCreateRejectsUnparsableInput(t *testing.T) {
	h := newHarness(t, "courses", nil)
	h.form.SetValue("courseName", "Algebra")
	h.form.SetValue("credit", "three")

	if err := h.ctrl.Create(context.Background()); err == nil {
		t.Fatalf("expected coercion error")
	}
	if n := h.calls.Count(""); n != 0 {
		t.Fatalf("made %d requests, want none", n)
	}
	if msg := h.lastNote(t); !strings.Contains(msg.Text, "Credit must be a whole number") {
		t.Fatalf("notification = %+v", msg)
	}
}

func TestCreateOmitsIdentityAndReloads(t *testing.T) {
	h := newHarness(t, "courses", nil)
	h.form.SetValue("courseId", "99")
	h.form.SetValue("courseName", "Algebra")
	h.form.SetValue("credit", "3")

	if err := h.ctrl.Create(context.Background()); err != nil {
		t.Fatalf("create: %v", err)
	}

	calls := h.calls.Calls()
	if calls[0].Method != "POST" {
		t.Fatalf("first call = %s", calls[0].Method)
	}
	body := calls[0].Body.(record.Record)
	if _, ok := body["courseId"]; ok {
		t.Fatalf("create body should not carry the identity: %v", body)
	}
	if diff := cmp.Diff([]string{"1"}, h.rowIDs()); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	if msg := h.notes.Messages()[0]; msg != (notify.Message{Level: notify.LevelSuccess, Text: "Course created"}) {
		t.Fatalf("notification = %+v", msg)
	}
	if got := h.form.Value("courseName"); got != "" {
		t.Fatalf("form should be cleared after create, got %q", got)
	}
}

func TestEditAndUpdateRoundTrip(t *testing.T) {
	h := newHarness(t, "teachers", nil)
	h.seed(t, teacher(5, "Grace", "Admiral"))
	ctx := context.Background()

	if err := h.ctrl.HandleAction(ctx, table.ActionEdit, "5"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	state := h.ctrl.State()
	if state.Mode != ModeEdit || state.EditingID != "5" {
		t.Fatalf("state = %+v", state)
	}
	if h.form.InputEnabled("teacherId") || h.form.ButtonEnabled(view.ButtonSave) || !h.form.ButtonEnabled(view.ButtonUpdate) {
		t.Fatalf("edit mode controls not applied")
	}
	if got := h.form.Value("name"); got != "Grace" {
		t.Fatalf("name = %q", got)
	}

	h.form.SetValue("title", "Rear Admiral")
	if err := h.ctrl.HandleButton(ctx, view.ButtonUpdate); err != nil {
		t.Fatalf("update: %v", err)
	}
	if h.ctrl.State().Mode != ModeCreate {
		t.Fatalf("update should return to create mode")
	}
	stored := h.backend.Records("teachers")
	if got := stored[0].Get("title").String(); got != "Rear Admiral" {
		t.Fatalf("stored title = %q", got)
	}
	var put testsupport.Call
	for _, call := range h.calls.Calls() {
		if call.Method == "PUT" {
			put = call
		}
	}
	if !strings.HasSuffix(put.URL, "/api/teachers/5") {
		t.Fatalf("put url = %s", put.URL)
	}
	if id, _ := put.Body.(record.Record).Get("teacherId").Int(); id != 5 {
		t.Fatalf("update body should carry the identity, got %v", put.Body)
	}
}

func TestUpdateAfterConcurrentDeleteKeepsForm(t *testing.T) {
	h := newHarness(t, "teachers", nil)
	h.seed(t, teacher(5, "Grace", "Admiral"))
	ctx := context.Background()

	if err := h.ctrl.LoadForEdit(ctx, "5"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	// Another session removes the record while this form is open.
	if _, err := client.New().Delete(ctx, h.baseURL+"teachers/5"); err != nil {
		t.Fatalf("delete behind the controller: %v", err)
	}
	h.form.SetValue("title", "X")

	err := h.ctrl.Update(ctx)
	if code := client.StatusCode(err); code != 404 {
		t.Fatalf("status = %d, err = %v", code, err)
	}
	state := h.ctrl.State()
	if state.Mode != ModeEdit || state.EditingID != "5" {
		t.Fatalf("failed update should keep edit state, got %+v", state)
	}
	if got := h.form.Value("title"); got != "X" {
		t.Fatalf("failed update should keep form input, got %q", got)
	}
	if msg := h.lastNote(t); msg.Level != notify.LevelError || !strings.Contains(msg.Text, "Teacher 5 not found") {
		t.Fatalf("notification = %+v", msg)
	}
}

func TestCreateRejectsNaNScoreWithoutRequest(t *testing.T) {
	h := newHarness(t, "student-courses", nil)
	h.form.SetValue("studentId", "1")
	h.form.SetValue("courseId", "2")
	h.form.SetValue("score", "NaN")
	h.form.SetValue("semester", "2024-1")

	err := h.ctrl.Create(context.Background())
	var verr *validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if diff := cmp.Diff(map[string][]string{"score": {"Score must be a number"}}, verr.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if n := h.calls.Count(""); n != 0 {
		t.Fatalf("made %d requests, want none", n)
	}
}

func TestUpdateRequiresEditMode(t *testing.T) {
	h := newHarness(t, "teachers", nil)
	if err := h.ctrl.Update(context.Background()); !errors.Is(err, ErrNotEditing) {
		t.Fatalf("err = %v, want ErrNotEditing", err)
	}
}

func TestLoadForEditFailureKeepsState(t *testing.T) {
	h := newHarness(t, "teachers", nil)
	h.form.SetValue("name", "draft")

	if err := h.ctrl.LoadForEdit(context.Background(), "9"); err == nil {
		t.Fatalf("expected error for missing teacher")
	}
	if h.ctrl.State().Mode != ModeCreate {
		t.Fatalf("failed load should keep create mode")
	}
	if got := h.form.Value("name"); got != "draft" {
		t.Fatalf("failed load should keep form input, got %q", got)
	}
	msg := h.lastNote(t)
	if msg.Text != "Failed to load teacher 9: HTTP 404: Teacher 9 not found" {
		t.Fatalf("notification = %q", msg.Text)
	}
}

func TestLoadByIDRejectsBadIdentity(t *testing.T) {
	h := newHarness(t, "teachers", nil)
	ctx := context.Background()

	if err := h.ctrl.LoadByID(ctx, "  "); !errors.Is(err, ErrMissingID) {
		t.Fatalf("err = %v, want ErrMissingID", err)
	}
	if err := h.ctrl.LoadByID(ctx, "abc"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("err = %v, want ErrInvalidID", err)
	}
	if n := h.calls.Count(""); n != 0 {
		t.Fatalf("made %d requests, want none", n)
	}
}

func TestLoadByIDShowsSingleRow(t *testing.T) {
	h := newHarness(t, "teachers", nil)
	h.seed(t, teacher(1, "Ada", "Professor"), teacher(2, "Alan", "Lecturer"))
	h.form.SetValue("teacherId", " 2 ")

	if err := h.ctrl.HandleButton(context.Background(), view.ButtonQueryByID); err != nil {
		t.Fatalf("query by id: %v", err)
	}
	if diff := cmp.Diff([]string{"2"}, h.rowIDs()); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	if h.ctrl.State().Mode != ModeCreate {
		t.Fatalf("lookup should not enter edit mode")
	}
}

func TestLoadByFilterRejectsNull(t *testing.T) {
	h := newHarness(t, "students", nil)
	err := h.ctrl.LoadByFilter(context.Background(), record.Filter{"minAge": record.NullValue()})
	if !errors.Is(err, record.ErrNullFilterValue) {
		t.Fatalf("err = %v, want ErrNullFilterValue", err)
	}
	if n := h.calls.Count(""); n != 0 {
		t.Fatalf("made %d requests, want none", n)
	}
}

func TestQueryUsesFormAndDefaults(t *testing.T) {
	h := newHarness(t, "students", nil)
	h.seed(t, student("a", 10), student("b", 40), student("c", 90))
	h.form.SetValue("minAge", "30")

	if err := h.ctrl.HandleButton(context.Background(), view.ButtonQueryByFilter); err != nil {
		t.Fatalf("query: %v", err)
	}
	if diff := cmp.Diff([]string{"2", "3"}, h.rowIDs()); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}

	if err := h.ctrl.LoadQuery(context.Background(), "nope"); !errors.Is(err, ErrUnknownQuery) {
		t.Fatalf("err = %v, want ErrUnknownQuery", err)
	}
}

func TestEmptyResultShowsPlaceholder(t *testing.T) {
	h := newHarness(t, "teachers", nil)
	if err := h.ctrl.LoadAll(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	body := h.sink.Body()
	if !body.Empty() || body.Rows[0].Cells[0] != "No teachers found" {
		t.Fatalf("body = %+v", body)
	}
}

func TestRemoveDeclinedSendsNothing(t *testing.T) {
	for name, confirmer := range map[string]view.Confirmer{
		"declined":     view.Always(false),
		"no confirmer": nil,
	} {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, "teachers", confirmer)
			h.seed(t, teacher(1, "Ada", "Professor"))

			err := h.ctrl.HandleAction(context.Background(), table.ActionDelete, "1")
			if !errors.Is(err, ErrConfirmationDeclined) {
				t.Fatalf("err = %v, want ErrConfirmationDeclined", err)
			}
			if n := h.calls.Count("DELETE"); n != 0 {
				t.Fatalf("sent %d deletes", n)
			}
			if len(h.notes.Messages()) != 0 {
				t.Fatalf("declined delete should not notify: %+v", h.notes.Messages())
			}
			if len(h.backend.Records("teachers")) != 1 {
				t.Fatalf("record should survive")
			}
		})
	}
}

func TestRemoveResetsEditedRecord(t *testing.T) {
	var prompts []string
	confirmer := view.ConfirmFunc(func(_ context.Context, message string) (bool, error) {
		prompts = append(prompts, message)
		return true, nil
	})
	h := newHarness(t, "teachers", confirmer)
	h.seed(t, teacher(1, "Ada", "Professor"), teacher(2, "Alan", "Lecturer"))
	ctx := context.Background()

	if err := h.ctrl.LoadForEdit(ctx, "1"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if err := h.ctrl.Remove(ctx, "2"); err != nil {
		t.Fatalf("remove 2: %v", err)
	}
	if h.ctrl.State().Mode != ModeEdit {
		t.Fatalf("removing another record should keep edit mode")
	}
	if err := h.ctrl.Remove(ctx, "1"); err != nil {
		t.Fatalf("remove 1: %v", err)
	}
	if h.ctrl.State().Mode != ModeCreate {
		t.Fatalf("removing the edited record should reset the form")
	}
	if diff := cmp.Diff([]string{"Delete teacher 2?", "Delete teacher 1?"}, prompts); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
	if !h.sink.Body().Empty() {
		t.Fatalf("table should be empty after deleting everything")
	}
	if msg := h.lastNote(t); msg.Text != "Teacher deleted" {
		t.Fatalf("notification = %+v", msg)
	}
}

func TestRemoveMissingReportsError(t *testing.T) {
	h := newHarness(t, "teachers", view.Always(true))
	err := h.ctrl.Remove(context.Background(), "3")
	if client.StatusCode(err) != 404 {
		t.Fatalf("err = %v, want 404", err)
	}
	if msg := h.lastNote(t); msg.Level != notify.LevelError {
		t.Fatalf("notification = %+v", msg)
	}
}

func TestProbeFailureIsReported(t *testing.T) {
	res := testsupport.Resource(t, "teachers")
	notes := &notify.Recorder{}
	ctrl, err := New(res, WithBaseURL("http://127.0.0.1:1"), WithNotifier(notes))
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	if err := ctrl.Init(context.Background()); err == nil {
		t.Fatalf("expected probe failure")
	}
	msg, _ := notes.Last()
	if !strings.HasPrefix(msg.Text, "API connection test failed: ") {
		t.Fatalf("notification = %q", msg.Text)
	}
}

func TestConcurrentActions(t *testing.T) {
	h := newHarness(t, "courses", view.Always(true))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := record.Record{
				"courseName": record.StringValue("Course"),
				"credit":     record.IntValue(int64(i%10 + 1)),
				"teacherId":  record.NullValue(),
			}
			if _, err := h.ctrl.CreateRecord(ctx, rec); err != nil {
				t.Errorf("create: %v", err)
			}
			_ = h.ctrl.LoadAll(ctx)
			_ = h.ctrl.State()
		}(i)
	}
	wg.Wait()

	if err := h.ctrl.LoadAll(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if n := len(h.rowIDs()); n != 8 {
		t.Fatalf("rows = %d, want 8", n)
	}
}
