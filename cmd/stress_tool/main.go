package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

var httpClient *http.Client

func init() {
	// 优化 HTTP Client 配置
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 2000
	t.MaxIdleConnsPerHost = 2000
	t.MaxConnsPerHost = 2000
	httpClient = &http.Client{
		Transport: t,
		Timeout:   10 * time.Second,
	}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "server base url")
	total := flag.Int("votes", 5000, "number of concurrent up votes")
	parallel := flag.Int("parallel", 500, "max in-flight requests")
	flag.Parse()

	// 1. 登录并创建压测帖子
	token, err := login(*baseURL, "stress_tool")
	if err != nil {
		fmt.Printf("登录失败: %v\n", err)
		os.Exit(1)
	}
	postID, err := createPost(*baseURL, token)
	if err != nil {
		fmt.Printf("创建帖子失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("开始压测：%d 次并发点赞 (PostID: %d)...\n", *total, postID)

	// 2. 并发点赞
	var success, failed atomic.Int64
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(*parallel)

	start := time.Now()
	for i := 0; i < *total; i++ {
		g.Go(func() error {
			if err := vote(ctx, *baseURL, postID); err != nil {
				failed.Add(1)
				return nil
			}
			success.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	duration := time.Since(start)

	// 3. 校验最终得分与成功次数一致
	score, err := postScore(*baseURL, postID)
	if err != nil {
		fmt.Printf("读取帖子失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("--------------------------------------------------")
	fmt.Printf("压测结束，耗时: %v\n", duration)
	fmt.Printf("总请求数: %d\n", *total)
	fmt.Printf("QPS: %.2f\n", float64(*total)/duration.Seconds())
	fmt.Printf("成功: %d 失败: %d\n", success.Load(), failed.Load())
	fmt.Printf("最终得分: %d (预期: %d)\n", score, success.Load())
	fmt.Println("--------------------------------------------------")

	if score != success.Load() {
		fmt.Println("得分与成功投票数不一致，存在丢失更新")
		os.Exit(2)
	}
}

func do(req *http.Request) (*envelope, error) {
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	if resp.StatusCode >= 300 || env.Code != 0 {
		return nil, fmt.Errorf("status %d code %d: %s", resp.StatusCode, env.Code, env.Message)
	}
	return &env, nil
}

func login(baseURL, username string) (string, error) {
	body, _ := json.Marshal(map[string]string{"username": username})
	req, err := http.NewRequest(http.MethodPost, baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	env, err := do(req)
	if err != nil {
		return "", err
	}
	var result struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		return "", err
	}
	return result.Token, nil
}

func createPost(baseURL, token string) (uint64, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	_ = w.WriteField("title", "压测专用帖")
	_ = w.WriteField("text", "concurrent vote check")
	if err := w.Close(); err != nil {
		return 0, err
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/forum/posts", &body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	env, err := do(req)
	if err != nil {
		return 0, err
	}
	var result struct {
		ID uint64 `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		return 0, err
	}
	return result.ID, nil
}

func vote(ctx context.Context, baseURL string, postID uint64) error {
	url := fmt.Sprintf("%s/forum/posts/%d/vote", baseURL, postID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader([]byte(`{"action":"up"}`)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	_, err = do(req)
	return err
}

func postScore(baseURL string, postID uint64) (int64, error) {
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/forum/posts/%d", baseURL, postID), nil)
	if err != nil {
		return 0, err
	}
	env, err := do(req)
	if err != nil {
		return 0, err
	}
	var result struct {
		Votes struct {
			Score int64 `json:"score"`
		} `json:"votes"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		return 0, err
	}
	return result.Votes.Score, nil
}
