package testtool

import (
	"net/http"
	_ "net/http/pprof" // 匯入後會自動註冊 pprof endpoint

	"nexus_chat_service/pkg/config"
	"nexus_chat_service/pkg/logger"

	"go.uber.org/zap"
)

// PprofAddr pprof 只在本機監聽
const PprofAddr = "127.0.0.1:6060"

// StartPprof 非 production 時啟動 pprof 監控伺服器
func StartPprof() {
	if config.IsProduction() {
		logger.Log.Info("Production environment detected, pprof is disabled.")
		return
	}

	go func() {
		logger.Log.Info("Starting pprof server", zap.String("addr", PprofAddr))
		if err := http.ListenAndServe(PprofAddr, nil); err != nil {
			logger.Log.Warn("pprof server failed", zap.Error(err))
		}
	}()
}

// 常用端點:
// 	•	/debug/pprof/goroutine → 顯示所有 Goroutines (檢查 realtime feed 是否洩漏)
// 	•	/debug/pprof/heap → 顯示記憶體分配
// 	•	/debug/pprof/profile → 執行 30 秒 CPU 分析
//
// go tool pprof http://127.0.0.1:6060/debug/pprof/profile?seconds=30
