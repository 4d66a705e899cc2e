package upstream

import (
	"context"
	"time"
)

// RunHealthPinger - запускает keep-alive опрос /api/health: upstream
// хостится на free-tier и засыпает без трафика.
func (c *Client) RunHealthPinger(interval time.Duration) {
	if c.stopPingChan != nil {
		return
	}
	c.stopPingChan = make(chan struct{})

	ticker := time.NewTicker(interval)

	go func() {
		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				if err := c.Health(ctx); err != nil {
					c.lg.Errorf("health ping error: %v", err)
				}
				cancel()
			case <-c.stopPingChan:
				ticker.Stop()
				return
			}
		}
	}()
}

func (c *Client) StopHealthPinger() {
	if c.stopPingChan != nil {
		close(c.stopPingChan)
		c.stopPingChan = nil
	}
}
