package entities

// WeekInfo describes one week of the program.
type WeekInfo struct {
	Week      int
	Title     string
	Reduction string
	Benefits  []string
}

var weeks = []WeekInfo{
	{
		Week:      1,
		Title:     "Week 1",
		Reduction: "Cut by ~25%",
		Benefits:  []string{"Heart rate & BP normalize", "Oxygen circulation improves", "Cravings begin"},
	},
	{
		Week:      2,
		Title:     "Week 2",
		Reduction: "~50% of original",
		Benefits:  []string{"Taste and smell return", "Easier breathing", "More stable energy"},
	},
	{
		Week:      3,
		Title:     "Week 3",
		Reduction: "~60–70% reduction",
		Benefits:  []string{"Improved lung function", "Less coughing", "Better circulation"},
	},
	{
		Week:      4,
		Title:     "Week 4",
		Reduction: "Few cigarettes/day",
		Benefits:  []string{"Lung cilia healing", "Cravings weaken", "Skin looks fresher"},
	},
	{
		Week:      5,
		Title:     "Week 5",
		Reduction: "1/day or every other day",
		Benefits:  []string{"Dopamine levels adjust", "Breathing improves", "Lower heart risk"},
	},
	{
		Week:      6,
		Title:     "Week 6",
		Reduction: "0 cigarettes (quit week)",
		Benefits:  []string{"Cough nearly gone", "Stronger immune system", "Better focus, mood, energy"},
	},
}

// GetWeekInfo returns the description of a week. Unknown weeks fall back to week 1.
func GetWeekInfo(week int) WeekInfo {
	if week < FirstWeek || week > LastWeek {
		return weeks[0]
	}
	return weeks[week-1]
}
