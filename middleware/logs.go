package middleware

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"Inspector/Models"

	"github.com/gofiber/fiber/v2"
)

// LogData is one request log line.
type LogData struct {
	Timestamp time.Time     `json:"timestamp"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Status    int           `json:"status"`
	Latency   time.Duration `json:"latency"`
	IP        string        `json:"ip"`
	UserAgent string        `json:"user_agent"`
	UserID    uint          `json:"user_id,omitempty"`
	Username  string        `json:"username,omitempty"`
	Error     string        `json:"error,omitempty"`
}

var skipLogPaths = []string{"/health", "/metrics"}

// RequestLogger logs every request to stdout and appends a JSON line to
// logs/requests.log.
func RequestLogger() fiber.Handler {
	if err := os.MkdirAll("logs", 0755); err != nil {
		log.Printf("Error creating logs directory: %v\n", err)
	}

	return func(c *fiber.Ctx) error {
		for _, path := range skipLogPaths {
			if c.Path() == path {
				return c.Next()
			}
		}

		start := time.Now()
		err := c.Next()

		data := LogData{
			Timestamp: start,
			Method:    c.Method(),
			Path:      c.Path(),
			Status:    c.Response().StatusCode(),
			Latency:   time.Since(start),
			IP:        c.IP(),
			UserAgent: c.Get("User-Agent"),
		}
		if err != nil {
			data.Error = err.Error()
		}
		if user, ok := c.Locals("user").(Models.User); ok {
			data.UserID = user.ID
			data.Username = user.Name
		}

		log.Printf("%s %s -> %d (%s)", data.Method, data.Path, data.Status, data.Latency)
		writeLogLine(data)

		return err
	}
}

func writeLogLine(data LogData) {
	file, err := os.OpenFile("logs/requests.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return
	}
	defer file.Close()

	line, err := json.Marshal(data)
	if err != nil {
		return
	}
	file.Write(append(line, '\n'))
}
