package singleton

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"
)

// healthCheckTimeout 健康检查超时时间
const healthCheckTimeout = 2 * time.Second

// CheckAndLock 通过监听端口实现单实例锁
// 端口可用时返回 listener；已有健康实例运行时返回 (nil, nil)，调用者应直接退出；
// 端口被占用但健康检查失败时返回错误
func CheckAndLock(port string) (net.Listener, error) {
	listener, err := net.Listen("tcp", port)
	if err == nil {
		return listener, nil
	}

	if !isAddrInUse(err) {
		return nil, fmt.Errorf("failed to listen on %s: %w", port, err)
	}

	if isInstanceRunning(port) {
		return nil, nil
	}
	return nil, fmt.Errorf("port %s is occupied but the health check failed", port)
}

// isAddrInUse 判断错误是否为地址已被占用
func isAddrInUse(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.EADDRINUSE) {
		return true
	}
	// Windows 下错误码不同，退回字符串匹配
	return strings.Contains(err.Error(), "address already in use") ||
		strings.Contains(err.Error(), "Only one usage of each socket address")
}

// isInstanceRunning 通过 /health 探测端口上的实例是否健康
func isInstanceRunning(port string) bool {
	client := &http.Client{Timeout: healthCheckTimeout}

	resp, err := client.Get(fmt.Sprintf("http://localhost%s/health", port))
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
