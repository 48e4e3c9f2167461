package client

import "github.com/dmitrijs2005/pagebuilder/internal/common"

var (
	ErrUnavailable = common.ErrUnavailable
	ErrNotFound    = common.ErrNotFound
)
