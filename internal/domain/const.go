package domain

type ctxKey string

const (
	RequesterIDCtxKey        ctxKey = "itreb-requesterId"
	RequesterRoleCtxKey      ctxKey = "itreb-requesterRole"
	RequesterPortfolioCtxKey ctxKey = "itreb-requesterPortfolio"
)
