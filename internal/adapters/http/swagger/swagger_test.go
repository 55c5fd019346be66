package swagger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/smartystreets/goconvey/convey"
)

func TestSwaggerHandler(t *testing.T) {
	convey.Convey("Given a swagger handler", t, func() {
		mux := http.NewServeMux()

		convey.Convey("When registering the swagger handler", func() {
			Register(mux)

			convey.Convey("Then it should handle /openapi.yaml route", func() {
				req := httptest.NewRequest("GET", "/openapi.yaml", http.NoBody)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "application/yaml; charset=utf-8")
				convey.So(w.Body.Len(), convey.ShouldBeGreaterThan, 0)
			})

			convey.Convey("And it should handle /api-docs route", func() {
				req := httptest.NewRequest("GET", "/api-docs", http.NoBody)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "text/html; charset=utf-8")
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `spec-url="/openapi.yaml"`)
			})
		})

		convey.Convey("When parsing the embedded spec", func() {
			doc, err := yaml.Parser().Unmarshal(OpenAPI)

			convey.Convey("Then every read route should be described", func() {
				convey.So(err, convey.ShouldBeNil)
				paths, ok := doc["paths"].(map[string]any)
				convey.So(ok, convey.ShouldBeTrue)
				for _, p := range []string{"/healthz", "/stats", "/events", "/windows", "/pairings",
					"/interceptions", "/obstructions", "/mean-distances", "/rows", "/ball-distances", "/series-distance"} {
					convey.So(paths, convey.ShouldContainKey, p)
				}
			})
		})

		convey.Convey("When registering on a nil mux", func() {
			convey.Convey("Then it should panic", func() {
				convey.So(func() { Register(nil) }, convey.ShouldPanic)
			})
		})
	})
}
