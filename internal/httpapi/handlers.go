package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inmzhang/leaky/qc/gpt"
	"github.com/inmzhang/leaky/qc/program"
	"github.com/inmzhang/leaky/qc/readout"
	"github.com/inmzhang/leaky/qc/sampler"
	"github.com/inmzhang/leaky/qc/transition"
)

// complexEntry is a JSON-serializable complex128.
type complexEntry struct {
	Re float64 `json:"re"`
	Im float64 `json:"im"`
}

func (e complexEntry) complex() complex128 { return complex(e.Re, e.Im) }

type decomposeRequest struct {
	KrausOperators [][]complexEntry `json:"kraus_operators" binding:"required"`
	NumQubits      int              `json:"num_qubits" binding:"required"`
	NumLevel       int              `json:"num_level" binding:"required"`
}

type transitionResponse struct {
	Initial     []int   `json:"initial"`
	Final       []int   `json:"final"`
	Probability float64 `json:"probability"`
	PauliIndex  int     `json:"pauli_index"`
}

type decomposeResponse struct {
	Rows map[string][]transitionResponse `json:"rows"`
}

func tableToResponse(table *transition.TransitionTable) decomposeResponse {
	rows := make(map[string][]transitionResponse)
	for _, initial := range table.InitialStatuses() {
		entries := table.Row(initial)
		out := make([]transitionResponse, len(entries))
		for i, tr := range entries {
			out[i] = transitionResponse{
				Initial:     []int(tr.Initial),
				Final:       []int(tr.Final),
				Probability: tr.Probability,
				PauliIndex:  tr.PauliIndex,
			}
		}
		rows[initial.String()] = out
	}
	return decomposeResponse{Rows: rows}
}

func (s *Service) handleDecompose(c *gin.Context) {
	log := loggerFromContext(c, s.log)

	var req decomposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	krausOperators := make([][]complex128, len(req.KrausOperators))
	for i, op := range req.KrausOperators {
		row := make([]complex128, len(op))
		for j, entry := range op {
			row[j] = entry.complex()
		}
		krausOperators[i] = row
	}

	table, err := gpt.Decompose(krausOperators, req.NumQubits, req.NumLevel)
	if err != nil {
		log.Warn().Err(err).Msg("decompose failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := table.Validate(); err != nil {
		log.Error().Err(err).Msg("decomposed table failed validation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tableToResponse(table))
}

type gateRequest struct {
	Name    string    `json:"name" binding:"required"`
	Targets []int     `json:"targets" binding:"required"`
	Args    []float64 `json:"args"`
}

type sampleRequest struct {
	NumQubits int           `json:"num_qubits" binding:"required"`
	Ops       []gateRequest `json:"ops" binding:"required"`
	Shots     int           `json:"shots" binding:"required"`
	Workers   int           `json:"workers"`
	Strategy  string        `json:"strategy"`
	// Seed is optional; omitting it (or sending JSON null) gives every shot
	// an independent, non-reproducible seed instead of pinning it to 0.
	Seed *int64 `json:"seed"`
}

type sampleResponse struct {
	Records [][]int `json:"records"`
}

func (s *Service) handleSample(c *gin.Context) {
	log := loggerFromContext(c, s.log)

	var req sampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	strategyName := req.Strategy
	if strategyName == "" {
		strategyName = "RAW_LABEL"
	}
	strategy, err := readout.Parse(strategyName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b := program.NewBuilder(req.NumQubits)
	for _, op := range req.Ops {
		b = b.GateArgs(op.Name, op.Args, op.Targets...)
	}
	prog, err := b.Build()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts := []sampler.Option{}
	if req.Seed != nil {
		opts = append(opts, sampler.WithSeed(*req.Seed))
	}
	smp := sampler.New(prog, s.newEngine, nil, log, opts...)
	records, err := smp.Sample(req.Shots, req.Workers, strategy)
	if err != nil {
		log.Error().Err(err).Msg("sample failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, sampleResponse{Records: records})
}
