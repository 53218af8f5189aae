package repositories

import (
	"gorm.io/datatypes"

	"github.com/quizmaster-pro/exam-service/internal/models"
)

func strPtr(s string) *string { return &s }

// DemoChapters returns the seed chapter catalog. Both storage drivers
// load it on first run so a fresh deployment is immediately usable.
func DemoChapters() []models.Chapter {
	return []models.Chapter{
		{ID: "1", Title: "Algebra", Description: "Linear equations, quadratic equations, polynomials", Difficulty: models.DifficultyEasy, IsActive: true},
		{ID: "2", Title: "Geometry", Description: "Shapes, angles, areas, and coordinate geometry", Difficulty: models.DifficultyMedium, IsActive: true},
		{ID: "3", Title: "Calculus", Description: "Derivatives, integrals, limits, and applications", Difficulty: models.DifficultyHard, IsActive: true},
		{ID: "4", Title: "Statistics", Description: "Probability, distributions, hypothesis testing", Difficulty: models.DifficultyMedium, IsActive: true},
		{ID: "5", Title: "Trigonometry", Description: "Sine, cosine, tangent, and trigonometric identities", Difficulty: models.DifficultyMedium, IsActive: true},
	}
}

// DemoQuestions returns the seed question bank covering every demo
// chapter.
func DemoQuestions() []models.Question {
	return []models.Question{
		{
			ID: "1", ChapterID: "1",
			Text:          "What is the solution to the equation 2x + 5 = 13?",
			Options:       datatypes.JSONSlice[string]{"x = 3", "x = 4", "x = 5", "x = 6"},
			CorrectAnswer: 1,
			Explanation:   strPtr("Subtract 5 from both sides: 2x = 8, then divide by 2: x = 4"),
			Difficulty:    models.DifficultyEasy,
			Tags:          datatypes.JSONSlice[string]{"algebra", "linear-equations"},
			IsActive:      true,
		},
		{
			ID: "2", ChapterID: "2",
			Text:          "What is the area of a circle with radius 5 units?",
			Options:       datatypes.JSONSlice[string]{"25π square units", "10π square units", "25 square units", "50π square units"},
			CorrectAnswer: 0,
			Explanation:   strPtr("Area of circle = πr². With r = 5, Area = π × 5² = 25π square units"),
			Difficulty:    models.DifficultyMedium,
			Tags:          datatypes.JSONSlice[string]{"geometry", "circles"},
			IsActive:      true,
		},
		{
			ID: "3", ChapterID: "3",
			Text:          "What is the derivative of f(x) = x³ + 2x²?",
			Options:       datatypes.JSONSlice[string]{"3x² + 4x", "3x² + 2x", "x² + 4x", "3x + 4"},
			CorrectAnswer: 0,
			Explanation:   strPtr("Using power rule: d/dx(x³) = 3x² and d/dx(2x²) = 4x, so f'(x) = 3x² + 4x"),
			Difficulty:    models.DifficultyHard,
			Tags:          datatypes.JSONSlice[string]{"calculus", "derivatives"},
			IsActive:      true,
		},
		{
			ID: "4", ChapterID: "1",
			Text:          "Which of the following is a root of x² - 5x + 6 = 0?",
			Options:       datatypes.JSONSlice[string]{"x = 1", "x = 2", "x = 4", "x = 5"},
			CorrectAnswer: 1,
			Explanation:   strPtr("Factor: (x - 2)(x - 3) = 0, so x = 2 or x = 3"),
			Difficulty:    models.DifficultyEasy,
			Tags:          datatypes.JSONSlice[string]{"algebra", "quadratics"},
			IsActive:      true,
		},
		{
			ID: "5", ChapterID: "1",
			Text:          "What is the degree of the polynomial 4x³ - 2x² + 7?",
			Options:       datatypes.JSONSlice[string]{"1", "2", "3", "4"},
			CorrectAnswer: 2,
			Explanation:   strPtr("The degree is the highest exponent of x, which is 3"),
			Difficulty:    models.DifficultyEasy,
			Tags:          datatypes.JSONSlice[string]{"algebra", "polynomials"},
			IsActive:      true,
		},
		{
			ID: "6", ChapterID: "2",
			Text:          "The interior angles of a triangle always sum to how many degrees?",
			Options:       datatypes.JSONSlice[string]{"90", "180", "270", "360"},
			CorrectAnswer: 1,
			Explanation:   strPtr("The angle sum of any triangle in Euclidean geometry is 180 degrees"),
			Difficulty:    models.DifficultyEasy,
			Tags:          datatypes.JSONSlice[string]{"geometry", "triangles"},
			IsActive:      true,
		},
		{
			ID: "7", ChapterID: "2",
			Text:          "What is the distance between the points (0, 0) and (3, 4)?",
			Options:       datatypes.JSONSlice[string]{"5", "6", "7", "12"},
			CorrectAnswer: 0,
			Explanation:   strPtr("Distance = √(3² + 4²) = √25 = 5"),
			Difficulty:    models.DifficultyMedium,
			Tags:          datatypes.JSONSlice[string]{"geometry", "coordinate-geometry"},
			IsActive:      true,
		},
		{
			ID: "8", ChapterID: "3",
			Text:          "What is the value of the limit of (x² - 1)/(x - 1) as x approaches 1?",
			Options:       datatypes.JSONSlice[string]{"0", "1", "2", "The limit does not exist"},
			CorrectAnswer: 2,
			Explanation:   strPtr("Factor the numerator: (x - 1)(x + 1)/(x - 1) = x + 1, which approaches 2"),
			Difficulty:    models.DifficultyHard,
			Tags:          datatypes.JSONSlice[string]{"calculus", "limits"},
			IsActive:      true,
		},
		{
			ID: "9", ChapterID: "4",
			Text:          "A fair six-sided die is rolled once. What is the probability of rolling an even number?",
			Options:       datatypes.JSONSlice[string]{"1/6", "1/3", "1/2", "2/3"},
			CorrectAnswer: 2,
			Explanation:   strPtr("Three of the six outcomes (2, 4, 6) are even, so the probability is 3/6 = 1/2"),
			Difficulty:    models.DifficultyEasy,
			Tags:          datatypes.JSONSlice[string]{"statistics", "probability"},
			IsActive:      true,
		},
		{
			ID: "10", ChapterID: "4",
			Text:          "What is the median of the data set 3, 7, 9, 12, 14?",
			Options:       datatypes.JSONSlice[string]{"7", "9", "12", "45"},
			CorrectAnswer: 1,
			Explanation:   strPtr("With five sorted values, the median is the third value: 9"),
			Difficulty:    models.DifficultyMedium,
			Tags:          datatypes.JSONSlice[string]{"statistics", "descriptive"},
			IsActive:      true,
		},
		{
			ID: "11", ChapterID: "5",
			Text:          "What is the value of sin(30°)?",
			Options:       datatypes.JSONSlice[string]{"1/2", "√2/2", "√3/2", "1"},
			CorrectAnswer: 0,
			Explanation:   strPtr("sin(30°) = 1/2 is one of the standard angle values"),
			Difficulty:    models.DifficultyMedium,
			Tags:          datatypes.JSONSlice[string]{"trigonometry", "standard-angles"},
			IsActive:      true,
		},
		{
			ID: "12", ChapterID: "5",
			Text:          "Which identity equals sin²θ + cos²θ?",
			Options:       datatypes.JSONSlice[string]{"0", "1", "tan²θ", "2sinθcosθ"},
			CorrectAnswer: 1,
			Explanation:   strPtr("The Pythagorean identity: sin²θ + cos²θ = 1"),
			Difficulty:    models.DifficultyMedium,
			Tags:          datatypes.JSONSlice[string]{"trigonometry", "identities"},
			IsActive:      true,
		},
	}
}

// DemoUsers returns the two demo accounts the mocked auth flow accepts.
func DemoUsers() []models.User {
	return []models.User{
		{ID: "student-1", FullName: "Demo Student", Email: "student@demo.com", Role: models.RoleStudent},
		{ID: "admin-1", FullName: "Demo Admin", Email: "admin@demo.com", Role: models.RoleAdmin},
	}
}
