package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/issuesync/internal/http/handler"
	"basegraph.app/issuesync/internal/model"
	"basegraph.app/issuesync/internal/service"
)

var _ = Describe("SyncHandler", func() {
	var (
		router     *gin.Engine
		dispatcher *mockSyncDispatcher
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		dispatcher = &mockSyncDispatcher{}
		h := handler.NewSyncHandler(dispatcher, 90)

		router.POST("/sync/issues", h.TriggerIssues)
		router.POST("/sync/projects", h.TriggerProjects)
		router.GET("/sync/runs/:id", h.GetRun)
	})

	do := func(method, path string, body []byte) *httptest.ResponseRecorder {
		var req *http.Request
		if body != nil {
			req = httptest.NewRequest(method, path, bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
		} else {
			req = httptest.NewRequest(method, path, nil)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	Describe("TriggerIssues", func() {
		It("uses the configured lookback without a body", func() {
			dispatcher.enqueueIssueFn = func(context.Context, time.Time) (int64, error) {
				return 1864893093924212736, nil
			}

			w := do(http.MethodPost, "/sync/issues", nil)

			Expect(w.Code).To(Equal(http.StatusAccepted))
			expected := time.Now().UTC().AddDate(0, 0, -90)
			Expect(dispatcher.gotSince).To(BeTemporally("~", expected, time.Minute))

			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["run_id"]).To(Equal("1864893093924212736"))
			Expect(resp["kind"]).To(Equal("issues"))
			Expect(resp["since"]).NotTo(BeEmpty())
			Expect(resp["enqueued_at"]).To(Equal("2024-12-06T04:42:16.286Z"))
		})

		It("honours an explicit day count", func() {
			w := do(http.MethodPost, "/sync/issues", []byte(`{"days": 7}`))

			Expect(w.Code).To(Equal(http.StatusAccepted))
			expected := time.Now().UTC().AddDate(0, 0, -7)
			Expect(dispatcher.gotSince).To(BeTemporally("~", expected, time.Minute))
		})

		It("rejects a negative day count", func() {
			w := do(http.MethodPost, "/sync/issues", []byte(`{"days": -1}`))
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects malformed JSON", func() {
			w := do(http.MethodPost, "/sync/issues", []byte(`{"days":`))
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 500 when the task cannot be enqueued", func() {
			dispatcher.enqueueIssueFn = func(context.Context, time.Time) (int64, error) {
				return 0, errors.New("redis down")
			}

			w := do(http.MethodPost, "/sync/issues", nil)
			Expect(w.Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("TriggerProjects", func() {
		It("returns 202 with the run id", func() {
			dispatcher.enqueueProjectFn = func(context.Context) (int64, error) { return 77, nil }

			w := do(http.MethodPost, "/sync/projects", nil)

			Expect(w.Code).To(Equal(http.StatusAccepted))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["run_id"]).To(Equal("77"))
			Expect(resp["kind"]).To(Equal("projects"))
			Expect(resp).NotTo(HaveKey("since"))
		})

		It("returns 500 when the task cannot be enqueued", func() {
			dispatcher.enqueueProjectFn = func(context.Context) (int64, error) {
				return 0, errors.New("redis down")
			}

			w := do(http.MethodPost, "/sync/projects", nil)
			Expect(w.Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("GetRun", func() {
		It("returns the recorded run", func() {
			finished := time.Date(2025, 1, 1, 0, 5, 0, 0, time.UTC)
			dispatcher.getRunFn = func(_ context.Context, id int64) (*model.SyncRun, error) {
				Expect(id).To(Equal(int64(42)))
				return &model.SyncRun{
					ID:          42,
					Kind:        model.SyncKindIssues,
					Status:      model.SyncRunStatusSucceeded,
					Attempt:     1,
					SyncedCount: 12,
					StartedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
					FinishedAt:  &finished,
				}, nil
			}

			w := do(http.MethodGet, "/sync/runs/42", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["id"]).To(Equal("42"))
			Expect(resp["status"]).To(Equal("succeeded"))
			Expect(resp["synced_count"]).To(BeEquivalentTo(12))
			Expect(resp).NotTo(HaveKey("error"))
		})

		It("returns 400 for a non-numeric id", func() {
			w := do(http.MethodGet, "/sync/runs/abc", nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 404 for an unknown run", func() {
			dispatcher.getRunFn = func(context.Context, int64) (*model.SyncRun, error) {
				return nil, service.ErrSyncRunNotFound
			}

			w := do(http.MethodGet, "/sync/runs/1", nil)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("returns 500 on store errors", func() {
			dispatcher.getRunFn = func(context.Context, int64) (*model.SyncRun, error) {
				return nil, errors.New("db down")
			}

			w := do(http.MethodGet, "/sync/runs/1", nil)
			Expect(w.Code).To(Equal(http.StatusInternalServerError))
		})
	})
})
