package canvas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/alexhtruong/canned/config"
)

// ErrUpstreamUnavailable 上游 Canvas 不可达（网络错误 / 超时 / 非 2xx）
// 单次尝试，不做重试，由调用方决定面向用户的状态
var ErrUpstreamUnavailable = errors.New("Canvas 上游服务不可用")

// Client Canvas REST API 客户端
// 凭证与超时在构造时注入，跨请求无状态
type Client struct {
	baseURL    string
	token      string
	pageSize   int
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient 创建 Canvas 客户端
// 每个请求受 cfg.Timeout（默认 10 秒）约束
func NewClient(cfg *config.CanvasConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		token:    cfg.AccessToken,
		pageSize: cfg.PageSize,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// FetchPaginated 拉取分页列表接口的全部记录
// 从第 1 页开始逐页请求；响应体非空且 Link 头包含 rel="next" 时继续，否则终止
// 返回全部记录与最后一次响应的状态码
func (c *Client) FetchPaginated(ctx context.Context, endpoint string, include []string) ([]json.RawMessage, int, error) {
	var allItems []json.RawMessage
	page := 1
	lastStatus := http.StatusOK

	for {
		items, status, linkHeader, err := c.fetchPage(ctx, endpoint, include, page)
		if err != nil {
			return nil, lastStatus, err
		}
		lastStatus = status

		if len(items) == 0 {
			break
		}
		allItems = append(allItems, items...)

		if !strings.Contains(linkHeader, `rel="next"`) {
			break
		}
		page++
	}

	return allItems, lastStatus, nil
}

func (c *Client) fetchPage(ctx context.Context, endpoint string, include []string, page int) ([]json.RawMessage, int, string, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(c.pageSize))
	for _, inc := range include {
		q.Add("include[]", inc)
	}

	reqURL := c.baseURL + endpoint + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, "", fmt.Errorf("构造上游请求失败: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Canvas 请求失败",
			zap.String("endpoint", endpoint),
			zap.Int("page", page),
			zap.Error(err),
		)
		return nil, 0, "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		c.logger.Warn("Canvas 返回非 2xx 状态",
			zap.String("endpoint", endpoint),
			zap.Int("page", page),
			zap.Int("status", resp.StatusCode),
		)
		return nil, resp.StatusCode, "", fmt.Errorf("%w: 状态码 %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var items []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, resp.StatusCode, "", fmt.Errorf("%w: 解析响应失败: %v", ErrUpstreamUnavailable, err)
	}

	return items, resp.StatusCode, resp.Header.Get("Link"), nil
}

// FetchCourses 拉取当前凭证用户的全部课程（含学期信息）
func (c *Client) FetchCourses(ctx context.Context) ([]RawCourse, error) {
	items, _, err := c.FetchPaginated(ctx, "/api/v1/courses", []string{"term"})
	if err != nil {
		return nil, err
	}

	courses := make([]RawCourse, 0, len(items))
	for i, item := range items {
		var raw RawCourse
		if err := json.Unmarshal(item, &raw); err != nil {
			// 单条解码失败跳过，不中断整批
			c.logger.Warn("课程记录解码失败，已跳过", zap.Int("index", i), zap.Error(err))
			continue
		}
		courses = append(courses, raw)
	}
	return courses, nil
}

// FetchAssignments 拉取指定课程的全部作业（含内嵌提交记录）
func (c *Client) FetchAssignments(ctx context.Context, courseID int64) ([]RawAssignment, error) {
	endpoint := fmt.Sprintf("/api/v1/courses/%d/assignments", courseID)
	items, _, err := c.FetchPaginated(ctx, endpoint, []string{"submission"})
	if err != nil {
		return nil, err
	}

	assignments := make([]RawAssignment, 0, len(items))
	for i, item := range items {
		var raw RawAssignment
		if err := json.Unmarshal(item, &raw); err != nil {
			c.logger.Warn("作业记录解码失败，已跳过",
				zap.Int64("course_id", courseID),
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		assignments = append(assignments, raw)
	}
	return assignments, nil
}
