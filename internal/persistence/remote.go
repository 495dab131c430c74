package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/SlpAus/idle-miner-tycoon-backend/internal/economy"
)

const remoteRequestTimeout = 5 * time.Second

// RemoteStore 是远端持久化策略：带会话令牌的保存/加载请求。
// 任何传输失败、超时或非成功响应都强制透明降级到本地策略，
// 不向玩家抛出硬错误——最坏情况只损失最近一个自动保存间隔的进度。
type RemoteStore struct {
	baseURL      string
	sessionToken string
	client       *http.Client
	local        *LocalStore
}

// NewRemoteStore 创建远端策略。local是强制的降级目标，不允许为nil。
func NewRemoteStore(baseURL, sessionToken string, local *LocalStore) *RemoteStore {
	return &RemoteStore{
		baseURL:      baseURL,
		sessionToken: sessionToken,
		client:       &http.Client{Timeout: remoteRequestTimeout},
		local:        local,
	}
}

// saveResponse 对应 POST /api/game/save 的响应体。
type saveResponse struct {
	Success   bool    `json:"success"`
	RankScore float64 `json:"rankScore"`
	Code      string  `json:"code"`
	Message   string  `json:"message"`
}

// loadResponse 对应 GET /api/game/load 的响应体。
type loadResponse struct {
	Success bool               `json:"success"`
	Data    *economy.GameState `json:"data"`
	Code    string             `json:"code"`
	Message string             `json:"message"`
}

// Save 将完整快照上传到服务端，并总是在本地留一份备份。
func (rs *RemoteStore) Save(ctx context.Context, state economy.GameState) SaveResult {
	// 最后保存时刻与快照备份永远先落在本地，与远端结果无关
	localResult := rs.local.Save(ctx, state)

	body, err := json.Marshal(state)
	if err != nil {
		return SaveResult{Outcome: OutcomeDegradedToLocal, Err: fmt.Errorf("无法序列化存档: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rs.baseURL+"/api/game/save", bytes.NewReader(body))
	if err != nil {
		return SaveResult{Outcome: OutcomeDegradedToLocal, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+rs.sessionToken)

	resp, err := rs.client.Do(req)
	if err != nil {
		fmt.Printf("云保存失败，已降级为本地保存: %v\n", err)
		return SaveResult{Outcome: OutcomeDegradedToLocal, Err: err}
	}
	defer resp.Body.Close()

	var parsed saveResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		fmt.Printf("云保存响应无法解析，已降级为本地保存: %v\n", err)
		return SaveResult{Outcome: OutcomeDegradedToLocal, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusOK && parsed.Success:
		if localResult.Err != nil {
			fmt.Printf("云保存成功，但本地备份失败: %v\n", localResult.Err)
		}
		return SaveResult{Outcome: OutcomeSaved, RankScore: parsed.RankScore}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// 鉴权或校验被明确拒绝，本地备份仍然有效
		err := fmt.Errorf("服务端拒绝保存 (%s): %s", parsed.Code, parsed.Message)
		fmt.Printf("%v\n", err)
		return SaveResult{Outcome: OutcomeRejected, Err: err}
	default:
		err := fmt.Errorf("云保存返回非成功状态 %d (%s)", resp.StatusCode, parsed.Code)
		fmt.Printf("云保存失败，已降级为本地保存: %v\n", err)
		return SaveResult{Outcome: OutcomeDegradedToLocal, Err: err}
	}
}

// Load 优先读取云端存档；云端不可用或没有存档时回落到本地快照。
func (rs *RemoteStore) Load(ctx context.Context) (economy.GameState, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rs.baseURL+"/api/game/load", nil)
	if err != nil {
		return rs.local.Load(ctx)
	}
	req.Header.Set("Authorization", "Bearer "+rs.sessionToken)

	resp, err := rs.client.Do(req)
	if err != nil {
		fmt.Printf("云读档失败，回落到本地存档: %v\n", err)
		return rs.local.Load(ctx)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Printf("云读档响应读取失败，回落到本地存档: %v\n", err)
		return rs.local.Load(ctx)
	}

	var parsed loadResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		fmt.Printf("云读档响应无法解析，回落到本地存档: %v\n", err)
		return rs.local.Load(ctx)
	}

	if resp.StatusCode != http.StatusOK || !parsed.Success || parsed.Data == nil {
		// 云端没有存档不是错误，尝试本地
		return rs.local.Load(ctx)
	}
	return *parsed.Data, true, nil
}

// LastSaveTime 委托给本地槽位：时间戳独立于策略，始终存在本地。
func (rs *RemoteStore) LastSaveTime() (time.Time, bool) {
	return rs.local.LastSaveTime()
}

// FirstRun 委托给本地槽位。
func (rs *RemoteStore) FirstRun() bool {
	return rs.local.FirstRun()
}
