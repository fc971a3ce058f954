package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/mergington/rollcall/internal/adapters/http/api"
	"github.com/mergington/rollcall/internal/adapters/repository"
	"github.com/mergington/rollcall/internal/domain/model"
	"github.com/mergington/rollcall/internal/domain/policy"
	"github.com/mergington/rollcall/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	logger.Init("console")
}

// Mock implementations for testing
type mockDependencies struct {
	registry *repository.MemRegistry
	changes  []api.Change
}

func newMockDependencies(opts ...repository.Option) *mockDependencies {
	return &mockDependencies{
		registry: repository.NewMemRegistry(model.DefaultSeed(), opts...),
	}
}

func (m *mockDependencies) Activities(ctx context.Context) []model.NamedActivity {
	return m.registry.Snapshot(ctx)
}

func (m *mockDependencies) Activity(ctx context.Context, name string) (model.Activity, error) {
	return m.registry.Get(ctx, name)
}

func (m *mockDependencies) Signup(ctx context.Context, name, email string) error {
	if err := m.registry.Signup(ctx, name, email); err != nil {
		return err
	}
	m.changes = append(m.changes, api.Change{Activity: name, Email: email, Kind: "signup"})
	return nil
}

func (m *mockDependencies) Unregister(ctx context.Context, name, email string) error {
	if err := m.registry.Unregister(ctx, name, email); err != nil {
		return err
	}
	m.changes = append(m.changes, api.Change{Activity: name, Email: email, Kind: "unregister"})
	return nil
}

func (m *mockDependencies) RecentChanges(_ context.Context, n int) ([]api.Change, error) {
	// Newest first, same as the audit trail.
	out := make([]api.Change, 0, n)
	for i := len(m.changes) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.changes[i])
	}
	return out, nil
}

type mockStatsProvider struct {
	stats map[string]any
}

func (m *mockStatsProvider) GetStats() map[string]any {
	if m.stats == nil {
		return map[string]any{"totalActivities": 9}
	}
	return m.stats
}

func newTestMux(deps *mockDependencies) *http.ServeMux {
	server := api.NewServer(deps, &mockStatsProvider{}, 100)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func doRequest(mux *http.ServeMux, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func signupURL(name, email string) string {
	return "/activities/" + strings.ReplaceAll(name, " ", "%20") +
		"/signup?email=" + url.QueryEscape(email)
}

func unregisterURL(name, email string) string {
	return "/activities/" + strings.ReplaceAll(name, " ", "%20") +
		"/unregister?email=" + url.QueryEscape(email)
}

func decodeActivities(w *httptest.ResponseRecorder) map[string]model.Activity {
	var out map[string]model.Activity
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		return nil
	}
	return out
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newTestMux(newMockDependencies())

		Convey("Then the health endpoint should be accessible", func() {
			w := doRequest(mux, "GET", "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("And the stats endpoint should return JSON", func() {
			w := doRequest(mux, "GET", "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")
		})
	})
}

func TestActivitiesHandler(t *testing.T) {
	Convey("Given the default seed", t, func() {
		mux := newTestMux(newMockDependencies())

		Convey("When listing activities", func() {
			w := doRequest(mux, "GET", "/activities")

			Convey("Then it should return 200 with a JSON object", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")

				activities := decodeActivities(w)
				So(activities, ShouldNotBeNil)
				So(len(activities), ShouldEqual, 9)
			})

			Convey("And the object keys should appear in seed order", func() {
				body := w.Body.String()
				chess := strings.Index(body, `"Chess Club"`)
				programming := strings.Index(body, `"Programming Class"`)
				science := strings.Index(body, `"Science Club"`)
				So(chess, ShouldBeGreaterThanOrEqualTo, 0)
				So(chess, ShouldBeLessThan, programming)
				So(programming, ShouldBeLessThan, science)
			})

			Convey("And each record should carry the full shape", func() {
				activities := decodeActivities(w)
				chess := activities["Chess Club"]
				So(chess.Description, ShouldNotBeEmpty)
				So(chess.Schedule, ShouldNotBeEmpty)
				So(chess.MaxParticipants, ShouldEqual, 12)
				So(chess.Participants, ShouldResemble,
					[]string{"michael@mergington.edu", "daniel@mergington.edu"})
			})
		})

		Convey("When requesting a single activity", func() {
			w := doRequest(mux, "GET", "/activities/Chess%20Club")
			So(w.Code, ShouldEqual, http.StatusOK)

			var activity model.Activity
			So(json.Unmarshal(w.Body.Bytes(), &activity), ShouldBeNil)
			So(activity.MaxParticipants, ShouldEqual, 12)
		})

		Convey("When using the wrong method on the listing", func() {
			w := doRequest(mux, "POST", "/activities")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestRosterHandler_Signup(t *testing.T) {
	Convey("Given the default seed", t, func() {
		mux := newTestMux(newMockDependencies())

		Convey("When a new student signs up for Chess Club", func() {
			w := doRequest(mux, "POST", signupURL("Chess Club", "newstudent@mergington.edu"))

			Convey("Then it should return 200 with a confirmation message", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var resp map[string]string
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["message"], ShouldEqual,
					"Signed up newstudent@mergington.edu for Chess Club")
			})

			Convey("And a subsequent listing should include the new participant", func() {
				lw := doRequest(mux, "GET", "/activities")
				activities := decodeActivities(lw)
				So(activities["Chess Club"].Participants, ShouldResemble, []string{
					"michael@mergington.edu",
					"daniel@mergington.edu",
					"newstudent@mergington.edu",
				})
			})

			Convey("And other activities should be untouched", func() {
				lw := doRequest(mux, "GET", "/activities")
				activities := decodeActivities(lw)
				So(activities["Programming Class"].Participants, ShouldResemble,
					[]string{"emma@mergington.edu", "sophia@mergington.edu"})
			})
		})

		Convey("When signing up an email that is already on the roster", func() {
			w := doRequest(mux, "POST", signupURL("Chess Club", "michael@mergington.edu"))

			Convey("Then it should return 400 with the duplicate detail", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var resp map[string]string
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["detail"], ShouldEqual,
					"michael@mergington.edu is already signed up for Chess Club")
			})

			Convey("And the roster should be unchanged", func() {
				lw := doRequest(mux, "GET", "/activities")
				activities := decodeActivities(lw)
				So(len(activities["Chess Club"].Participants), ShouldEqual, 2)
			})
		})

		Convey("When signing up for an unknown activity", func() {
			w := doRequest(mux, "POST", signupURL("Nonexistent Club", "a@mergington.edu"))
			So(w.Code, ShouldEqual, http.StatusNotFound)

			var resp map[string]string
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp["detail"], ShouldEqual, "Activity not found")
		})

		Convey("When the activity name differs only by case", func() {
			w := doRequest(mux, "POST", signupURL("chess club", "a@mergington.edu"))
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the email differs only by case", func() {
			w := doRequest(mux, "POST", signupURL("Chess Club", "MICHAEL@mergington.edu"))

			Convey("Then it should be treated as a distinct participant", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When the email parameter is empty", func() {
			w := doRequest(mux, "POST", "/activities/Chess%20Club/signup?email=")

			Convey("Then the empty string should be accepted as a participant", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				lw := doRequest(mux, "GET", "/activities")
				activities := decodeActivities(lw)
				So(activities["Chess Club"].Participants, ShouldContain, "")
			})
		})

		Convey("When the same email joins two activities", func() {
			w1 := doRequest(mux, "POST", signupURL("Chess Club", "both@mergington.edu"))
			w2 := doRequest(mux, "POST", signupURL("Art Studio", "both@mergington.edu"))

			So(w1.Code, ShouldEqual, http.StatusOK)
			So(w2.Code, ShouldEqual, http.StatusOK)
		})

		Convey("When using GET on the signup route", func() {
			w := doRequest(mux, "GET", signupURL("Chess Club", "a@mergington.edu"))
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestRosterHandler_Unregister(t *testing.T) {
	Convey("Given the default seed", t, func() {
		mux := newTestMux(newMockDependencies())

		Convey("When unregistering an existing participant", func() {
			w := doRequest(mux, "DELETE", unregisterURL("Chess Club", "michael@mergington.edu"))

			Convey("Then it should return 200 with a confirmation message", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var resp map[string]string
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["message"], ShouldEqual,
					"Unregistered michael@mergington.edu from Chess Club")
			})

			Convey("And the participant should be gone from the roster", func() {
				lw := doRequest(mux, "GET", "/activities")
				activities := decodeActivities(lw)
				So(activities["Chess Club"].Participants, ShouldResemble,
					[]string{"daniel@mergington.edu"})
			})

			Convey("And unregistering again should return 400", func() {
				w2 := doRequest(mux, "DELETE", unregisterURL("Chess Club", "michael@mergington.edu"))
				So(w2.Code, ShouldEqual, http.StatusBadRequest)

				var resp map[string]string
				So(json.Unmarshal(w2.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["detail"], ShouldEqual,
					"michael@mergington.edu is not registered for Chess Club")
			})
		})

		Convey("When unregistering from an unknown activity", func() {
			w := doRequest(mux, "DELETE", unregisterURL("Nonexistent Club", "a@mergington.edu"))
			So(w.Code, ShouldEqual, http.StatusNotFound)

			var resp map[string]string
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp["detail"], ShouldEqual, "Activity not found")
		})

		Convey("When a signup is followed by an unregister", func() {
			sw := doRequest(mux, "POST", signupURL("Drama Club", "cycle@mergington.edu"))
			So(sw.Code, ShouldEqual, http.StatusOK)

			uw := doRequest(mux, "DELETE", unregisterURL("Drama Club", "cycle@mergington.edu"))
			So(uw.Code, ShouldEqual, http.StatusOK)

			Convey("Then the roster should match its initial state", func() {
				lw := doRequest(mux, "GET", "/activities")
				activities := decodeActivities(lw)
				So(activities["Drama Club"].Participants, ShouldResemble,
					[]string{"noah@mergington.edu", "ava@mergington.edu"})
			})
		})

		Convey("When using POST on the unregister route", func() {
			w := doRequest(mux, "POST", unregisterURL("Chess Club", "michael@mergington.edu"))
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestRosterHandler_CapacityEnforcement(t *testing.T) {
	Convey("Given a registry that enforces capacity", t, func() {
		deps := newMockDependencies(repository.WithAdmission(
			policy.New(policy.WithCapacityEnforcement(true))))
		mux := newTestMux(deps)

		Convey("When an activity fills up", func() {
			seed := []model.NamedActivity{{
				Name: "Tiny Club",
				Activity: model.Activity{
					Description:     "Two seats only",
					Schedule:        "Fridays",
					MaxParticipants: 2,
					Participants:    []string{"a@mergington.edu", "b@mergington.edu"},
				},
			}}
			deps.registry = repository.NewMemRegistry(seed, repository.WithAdmission(
				policy.New(policy.WithCapacityEnforcement(true))))

			w := doRequest(mux, "POST", signupURL("Tiny Club", "c@mergington.edu"))

			Convey("Then further signups should return 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var resp map[string]string
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["detail"], ShouldEqual, "Tiny Club is already at capacity")
			})
		})

		Convey("When the roster is below capacity", func() {
			w := doRequest(mux, "POST", signupURL("Chess Club", "fits@mergington.edu"))
			So(w.Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestChangesHandler(t *testing.T) {
	Convey("Given a server with some recorded changes", t, func() {
		deps := newMockDependencies()
		mux := newTestMux(deps)

		doRequest(mux, "POST", signupURL("Chess Club", "one@mergington.edu"))
		doRequest(mux, "POST", signupURL("Art Studio", "two@mergington.edu"))
		doRequest(mux, "DELETE", unregisterURL("Chess Club", "one@mergington.edu"))

		Convey("When requesting the changes feed", func() {
			w := doRequest(mux, "GET", "/changes?limit=10")

			Convey("Then it should return the changes newest first", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var changes []api.Change
				So(json.Unmarshal(w.Body.Bytes(), &changes), ShouldBeNil)
				So(len(changes), ShouldEqual, 3)
				So(changes[0].Kind, ShouldEqual, "unregister")
				So(changes[0].Activity, ShouldEqual, "Chess Club")
				So(changes[2].Email, ShouldEqual, "one@mergington.edu")
			})
		})

		Convey("When requesting fewer changes than exist", func() {
			w := doRequest(mux, "GET", "/changes?limit=1")

			var changes []api.Change
			So(json.Unmarshal(w.Body.Bytes(), &changes), ShouldBeNil)
			So(len(changes), ShouldEqual, 1)
		})

		Convey("When the limit is missing or invalid", func() {
			So(doRequest(mux, "GET", "/changes").Code, ShouldEqual, http.StatusBadRequest)
			So(doRequest(mux, "GET", "/changes?limit=0").Code, ShouldEqual, http.StatusBadRequest)
			So(doRequest(mux, "GET", "/changes?limit=abc").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the limit exceeds the configured maximum", func() {
			w := doRequest(mux, "GET", "/changes?limit=101")
			So(w.Code, ShouldEqual, http.StatusBadRequest)

			var resp map[string]string
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp["code"], ShouldEqual, "limit_exceeded")
		})
	})
}
