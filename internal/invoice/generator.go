package invoice

import (
	"fmt"
	"time"
)

// Generate returns INV-YYMM-NNNN where NNNN is priorCount+1.
// Ids are only unique for a single active register.
func Generate(now time.Time, priorCount int) string {
	return fmt.Sprintf("INV-%s-%04d", now.Format("0601"), priorCount+1)
}
