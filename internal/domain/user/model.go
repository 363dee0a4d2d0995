package user

// Plan names the subscription tier of an account.
type Plan string

const (
	PlanFree       Plan = "free"
	PlanPremium    Plan = "premium"
	PlanPremiumPro Plan = "premium_pro"
)

// Principal is the verified identity attached to a request.
type Principal struct {
	UserID string
	Email  string
	Name   string
	Plan   Plan
}

// Limits caps how many resources a plan may create.
type Limits struct {
	Teams      int
	Formations int
	Chats      int
}

var planLimits = map[Plan]Limits{
	PlanFree:       {Teams: 1, Formations: 3, Chats: 1},
	PlanPremium:    {Teams: 3, Formations: 20, Chats: 5},
	PlanPremiumPro: {Teams: 999, Formations: 999, Chats: 999},
}

// LimitsFor returns the resource caps for a plan. Unknown plans get the
// free tier.
func LimitsFor(plan Plan) Limits {
	if limits, ok := planLimits[plan]; ok {
		return limits
	}
	return planLimits[PlanFree]
}
