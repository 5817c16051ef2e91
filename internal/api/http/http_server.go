package http

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/auctionlab/market-compliance/internal/api/dto"
	"github.com/auctionlab/market-compliance/internal/compliance"
	"github.com/auctionlab/market-compliance/internal/config"
	"github.com/auctionlab/market-compliance/internal/domain"
	"github.com/auctionlab/market-compliance/internal/middleware"
	"github.com/auctionlab/market-compliance/internal/pipeline"
	"github.com/auctionlab/market-compliance/internal/port"
)

// HTTPServer exposes simulation runs and their compliance results. Each
// POST /runs executes the full pipeline; results are kept in memory and,
// when a repository is configured, persisted for later lookup.
type HTTPServer struct {
	market config.MarketConfig
	rules  compliance.RuleConfig
	store  port.Store
	repo   port.Repository
	log    zerolog.Logger

	mu   sync.Mutex
	runs map[string]*pipeline.Context
}

func NewHTTPServer(market config.MarketConfig, rules compliance.RuleConfig, store port.Store, repo port.Repository, log zerolog.Logger) *HTTPServer {
	return &HTTPServer{
		market: market,
		rules:  rules,
		store:  store,
		repo:   repo,
		log:    log.With().Str("component", "api.http").Logger(),
		runs:   make(map[string]*pipeline.Context),
	}
}

func (s *HTTPServer) Run(addr string) error {
	return s.Router().Run(addr)
}

func (s *HTTPServer) Router() *gin.Engine {
	r := gin.Default()

	rl := middleware.NewRateLimiter(rate.Limit(10), 20)
	r.GET("/healthz", s.healthz)

	limited := r.Group("/", rl.Middleware())
	limited.POST("/runs", s.createRun)
	limited.GET("/runs/:id/verdicts", s.getVerdicts)
	limited.GET("/runs/:id/market-state", s.getMarketState)

	return r
}

func (s *HTTPServer) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *HTTPServer) createRun(c *gin.Context) {
	var req dto.RunRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	market := s.market
	if req.Periods != nil {
		market.Periods = *req.Periods
	}
	if req.Seed != nil {
		market.Seed = *req.Seed
	}
	if err := market.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pipe := pipeline.New(market, s.rules, s.store, s.repo, s.log)
	res, err := pipe.Run(c.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("run failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	s.runs[res.RunID] = res
	s.mu.Unlock()

	c.JSON(http.StatusOK, dto.RunResponse{
		RunID:    res.RunID,
		Periods:  market.Periods,
		Traded:   len(res.PeriodStats),
		Verdicts: convertVerdicts(res.Verdicts),
	})
}

func (s *HTTPServer) getVerdicts(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	res, ok := s.runs[id]
	s.mu.Unlock()

	var verdicts []domain.ComplianceVerdict
	if ok {
		verdicts = res.Verdicts
	} else if s.repo != nil {
		loaded, err := s.repo.LoadVerdicts(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		verdicts = loaded
	} else {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}

	c.JSON(http.StatusOK, dto.GetVerdictsResponse{
		RunID:    id,
		Verdicts: convertVerdicts(verdicts),
	})
}

func (s *HTTPServer) getMarketState(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	res, ok := s.runs[id]
	s.mu.Unlock()

	var state *domain.MarketState
	if ok {
		state = res.MarketState
	} else if s.repo != nil {
		loaded, err := s.repo.LoadMarketState(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		state = loaded
	} else {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}

	c.JSON(http.StatusOK, convertMarketState(id, state))
}

func convertVerdicts(vs []domain.ComplianceVerdict) []dto.Verdict {
	res := make([]dto.Verdict, len(vs))
	for i, v := range vs {
		res[i] = dto.Verdict{
			AgentID:       v.AgentID,
			Status:        string(v.Status),
			RiskScore:     v.RiskScore,
			ViolatedRules: v.ViolatedRules,
			Explanation:   v.Explanation,
		}
	}
	return res
}

func convertMarketState(runID string, ms *domain.MarketState) dto.GetMarketStateResponse {
	res := dto.GetMarketStateResponse{
		RunID:            runID,
		Liquidity:        ms.Liquidity,
		PriceHistory:     make([]dto.PricePoint, len(ms.PriceHistory)),
		VolatilitySpikes: make([]dto.VolatilitySpike, len(ms.VolatilitySpikes)),
		TradeHistory:     make([]dto.PeriodStats, len(ms.TradeHistory)),
	}
	for i, p := range ms.PriceHistory {
		res.PriceHistory[i] = dto.PricePoint{Open: p.Open, High: p.High, Low: p.Low, Close: p.Close}
	}
	for i, sp := range ms.VolatilitySpikes {
		res.VolatilitySpikes[i] = dto.VolatilitySpike{Period: sp.Period, SD: sp.SD}
	}
	for i, st := range ms.TradeHistory {
		res.TradeHistory[i] = dto.PeriodStats{
			Period:     st.Period,
			OpenPrice:  st.OpenPrice,
			HighPrice:  st.HighPrice,
			LowPrice:   st.LowPrice,
			ClosePrice: st.ClosePrice,
			Volume:     st.Volume,
			SD:         st.SD,
		}
	}
	return res
}
