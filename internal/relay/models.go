package relay

import "relay/pkg/models"

type ReceiveResponse struct {
	Success   bool   `json:"success" example:"true"`
	Message   string `json:"message" example:"Data received successfully"`
	RequestID string `json:"requestId" example:"1717171717171-abc123"`
}

type PollData struct {
	Result     string  `json:"result"`
	Status     string  `json:"status" example:"success"`
	Message    string  `json:"message"`
	Timestamp  int64   `json:"timestamp" example:"1717171717171"`
	ReceivedAt string  `json:"receivedAt" example:"2024-05-31T16:08:37.171Z"`
	AgeSeconds float64 `json:"ageSeconds" example:"4.2"`
}

type PollResponse struct {
	Success bool     `json:"success" example:"true"`
	Data    PollData `json:"data"`
}

type NotReadyResponse struct {
	Success   bool   `json:"success" example:"false"`
	Message   string `json:"message" example:"Result not ready yet"`
	RequestID string `json:"requestId"`
}

type ClearResponse struct {
	Success bool `json:"success" example:"true"`
	Cleared int  `json:"cleared" example:"1"`
}

type DebugEntry struct {
	Timestamp int64  `json:"timestamp"`
	Status    string `json:"status"`
	Flow      string `json:"flow,omitempty"`
	HasResult bool   `json:"hasResult"`
}

type DebugStorageResponse struct {
	TotalStored int                   `json:"totalStored"`
	Keys        []string              `json:"keys"`
	Data        map[string]DebugEntry `json:"data"`
}

func newDebugStorageResponse(entries []models.EnvelopeSummary) DebugStorageResponse {
	resp := DebugStorageResponse{
		TotalStored: len(entries),
		Keys:        make([]string, 0, len(entries)),
		Data:        make(map[string]DebugEntry, len(entries)),
	}
	for _, e := range entries {
		resp.Keys = append(resp.Keys, e.RequestID)
		resp.Data[e.RequestID] = DebugEntry{
			Timestamp: e.ReceivedAt.UnixMilli(),
			Status:    e.Status,
			Flow:      e.Flow,
			HasResult: e.HasResult,
		}
	}
	return resp
}
