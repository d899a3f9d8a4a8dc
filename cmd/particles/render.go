package main

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/golang/glog"

	"github.com/peragwin/particlefield/audio/util"
	"github.com/peragwin/particlefield/gfx/points"
	"github.com/peragwin/particlefield/particles"
)

// fillFrame copies the particle buffer into a points frame. Particles are coloured by
// height, and drawn opaque unless the strategy drives their alpha.
func fillFrame(fr *points.Frame, b *particles.Buffer, cfg *particles.Config, cmap util.ColorMap) {
	n := b.Len()
	if len(fr.Alpha) != n {
		fr.Positions = make([]float32, 3*n)
		fr.Colors = make([]float32, 3*n)
		fr.Alpha = make([]float32, n)
	}
	copy(fr.Positions, b.Vertices())

	bound := float32(cfg.SpatialBound)
	opaque := !cfg.Strategy.UsesAlpha()
	for i, pos := range b.Positions {
		c := cmap.At(float64((pos[1] + bound) / (2 * bound)))
		fr.Colors[3*i] = float32(c.R)
		fr.Colors[3*i+1] = float32(c.G)
		fr.Colors[3*i+2] = float32(c.B)
		if opaque {
			fr.Alpha[i] = 1
		} else {
			fr.Alpha[i] = b.Alpha[i]
		}
	}
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// newGraphqlHandler serves queries either as a ?query= parameter or as a json POST body
// of the form {"query": ..., "variables": ...}.
func newGraphqlHandler(field *particles.Field) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		switch r.Method {
		case http.MethodGet:
			req.Query = r.URL.Query().Get("query")
		case http.MethodPost:
			body, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			if err := json.Unmarshal(body, &req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		glog.V(1).Info(req.Query)

		res := field.Query(req.Query, req.Variables)
		for _, err := range res.Errors {
			glog.Warningf("graphql: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(res); err != nil {
			glog.Errorf("writing graphql response: %v", err)
		}
	})
}
