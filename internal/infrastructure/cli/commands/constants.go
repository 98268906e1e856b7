package commands

import "github.com/doeshing/askai-go/internal/domain"

const (
	// TimestampFormat for ledger and cache listings.
	TimestampFormat = domain.TimestampFormat

	// DefaultUsageLimit bounds 'usage show' output.
	DefaultUsageLimit = domain.DefaultUsageListLimit

	// TopModelsDisplayed in usage summaries.
	TopModelsDisplayed = 5
)
