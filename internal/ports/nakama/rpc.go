package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"memorygarden/internal/app/garden"
	"memorygarden/internal/app/stats"
	"memorygarden/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

var (
	errNoSession      = runtime.NewError("user session required", codeUnauthenticated)
	errInvalidPayload = runtime.NewError("invalid request payload", codeInvalidArgument)
	errLoadFailed     = runtime.NewError("failed to load player data", codeInternal)
	errSaveFailed     = runtime.NewError("failed to save player data", codeInternal)
)

// CreateMatchResponse is returned by memory_create_match.
type CreateMatchResponse struct {
	MatchID string `json:"match_id"`
}

// GetStatsRequest is the optional memory_get_stats payload.
type GetStatsRequest struct {
	Limit int `json:"limit"`
}

// StatsResponse is returned by memory_get_stats.
type StatsResponse struct {
	Stats  *domain.GameStats                         `json:"stats"`
	Totals domain.TotalStats                         `json:"totals"`
	Best   map[domain.Difficulty]*domain.GameRecord  `json:"best"`
	Recent map[domain.Difficulty][]domain.GameRecord `json:"recent"`
}

// WaterPlantRequest is the garden_water_plant payload.
type WaterPlantRequest struct {
	PlantID string `json:"plant_id"`
}

// WaterPlantResponse is returned by garden_water_plant.
type WaterPlantResponse struct {
	Grew   bool                `json:"grew"`
	Garden *domain.GardenState `json:"garden"`
}

type rpcHandlers struct {
	stats       *stats.Service
	gardens     *garden.Service
	recentLimit int
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer, statsSvc *stats.Service, gardens *garden.Service, recentLimit int) error {
	h := &rpcHandlers{stats: statsSvc, gardens: gardens, recentLimit: recentLimit}

	rpcs := map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error){
		RpcCreateMatch:      rpcCreateMatch,
		RpcGetStats:         h.rpcGetStats,
		RpcResetStats:       h.rpcResetStats,
		RpcGetGarden:        h.rpcGetGarden,
		RpcWaterPlant:       h.rpcWaterPlant,
		RpcResetGardenDaily: h.rpcResetGardenDaily,
	}
	for id, fn := range rpcs {
		if err := initializer.RegisterRpc(id, fn); err != nil {
			return err
		}
	}
	return nil
}

func userIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	return userID
}

// decodePayload unmarshals an optional JSON payload; an empty payload leaves dst as is.
func decodePayload(payload string, dst any) error {
	if payload == "" {
		return nil
	}
	return json.Unmarshal([]byte(payload), dst)
}

func encodeResponse(logger runtime.Logger, rpc string, v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		logger.Error("%s: Failed to marshal response: %v", rpc, err)
		return "", runtime.NewError("failed to encode response", codeInternal)
	}
	return string(b), nil
}

// rpcCreateMatch creates a private memory match owned by the caller.
func rpcCreateMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID := userIDFromContext(ctx)
	if userID == "" {
		return "", errNoSession
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameMemory, map[string]interface{}{MatchParamOwner: userID})
	if err != nil {
		logger.Error("%s [User:%s]: Failed to create match: %v", RpcCreateMatch, userID, err)
		return "", err
	}

	logger.Info("%s [User:%s]: Created match %s", RpcCreateMatch, userID, matchID)
	return encodeResponse(logger, RpcCreateMatch, CreateMatchResponse{MatchID: matchID})
}

func (h *rpcHandlers) openStats(ctx context.Context, logger runtime.Logger, rpc string) (*stats.Tracker, error) {
	userID := userIDFromContext(ctx)
	if userID == "" {
		return nil, errNoSession
	}
	tracker, result, err := h.stats.Open(ctx, userID)
	if err != nil {
		logger.Error("%s [User:%s]: %v", rpc, userID, err)
		return nil, errLoadFailed
	}
	if result.Recovered != nil {
		logger.Warn("%s [User:%s]: Stored stats unreadable, using empty stats: %v", rpc, userID, result.Recovered)
	}
	return tracker, nil
}

func (h *rpcHandlers) rpcGetStats(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	request := GetStatsRequest{}
	if err := decodePayload(payload, &request); err != nil || request.Limit < 0 {
		return "", errInvalidPayload
	}
	limit := request.Limit
	if limit == 0 {
		limit = h.recentLimit
	}

	tracker, err := h.openStats(ctx, logger, RpcGetStats)
	if err != nil {
		return "", err
	}

	resp := StatsResponse{
		Stats:  tracker.Stats(),
		Totals: tracker.Totals(),
		Best:   make(map[domain.Difficulty]*domain.GameRecord, len(domain.Difficulties)),
		Recent: make(map[domain.Difficulty][]domain.GameRecord, len(domain.Difficulties)),
	}
	for _, d := range domain.Difficulties {
		resp.Best[d] = tracker.BestRecord(d)
		resp.Recent[d] = tracker.RecentRecords(d, limit)
	}
	return encodeResponse(logger, RpcGetStats, resp)
}

func (h *rpcHandlers) rpcResetStats(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	tracker, err := h.openStats(ctx, logger, RpcResetStats)
	if err != nil {
		return "", err
	}
	if err := tracker.Reset(ctx); err != nil {
		logger.Error("%s [User:%s]: %v", RpcResetStats, userIDFromContext(ctx), err)
		return "", errSaveFailed
	}
	return encodeResponse(logger, RpcResetStats, StatsResponse{
		Stats:  tracker.Stats(),
		Totals: tracker.Totals(),
	})
}

func (h *rpcHandlers) openGarden(ctx context.Context, logger runtime.Logger, rpc string) (*garden.Garden, error) {
	userID := userIDFromContext(ctx)
	if userID == "" {
		return nil, errNoSession
	}
	g, result, err := h.gardens.Open(ctx, userID)
	if err != nil {
		logger.Error("%s [User:%s]: %v", rpc, userID, err)
		return nil, errLoadFailed
	}
	if result.Recovered != nil {
		logger.Warn("%s [User:%s]: Stored garden unreadable, using the starter garden: %v", rpc, userID, result.Recovered)
	}
	return g, nil
}

func (h *rpcHandlers) rpcGetGarden(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	g, err := h.openGarden(ctx, logger, RpcGetGarden)
	if err != nil {
		return "", err
	}
	return encodeResponse(logger, RpcGetGarden, g.State())
}

func (h *rpcHandlers) rpcWaterPlant(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	request := WaterPlantRequest{}
	if err := decodePayload(payload, &request); err != nil || request.PlantID == "" {
		return "", errInvalidPayload
	}

	g, err := h.openGarden(ctx, logger, RpcWaterPlant)
	if err != nil {
		return "", err
	}
	grew, err := g.WaterPlant(ctx, request.PlantID)
	if err != nil {
		logger.Error("%s [User:%s]: %v", RpcWaterPlant, userIDFromContext(ctx), err)
		return "", errSaveFailed
	}
	return encodeResponse(logger, RpcWaterPlant, WaterPlantResponse{Grew: grew, Garden: g.State()})
}

func (h *rpcHandlers) rpcResetGardenDaily(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	g, err := h.openGarden(ctx, logger, RpcResetGardenDaily)
	if err != nil {
		return "", err
	}
	if err := g.ResetDaily(ctx); err != nil {
		logger.Error("%s [User:%s]: %v", RpcResetGardenDaily, userIDFromContext(ctx), err)
		return "", errSaveFailed
	}
	return encodeResponse(logger, RpcResetGardenDaily, g.State())
}
