package dialogue

// Question es una pregunta estructurada del árbol por categoría.
type Question struct {
	Key     string   // bajo qué clave semántica se guarda la respuesta
	Prompt  string
	Options []string
}

// Claves de respuesta reconocidas por el árbol de preguntas.
const (
	keySubtype  = "subtype"
	keyFeatures = "features"
	keyAudience = "audience"
	keyGoal     = "goal"
)

// questionSets define el árbol de preguntas por categoría. Cada set se
// recorre por índice hasta agotarse y después el diálogo cae en la secuencia
// común (presupuesto, assets, plazo, dominio).
var questionSets = map[string][]Question{
	"website": {
		{Key: keySubtype, Prompt: "What kind of website are you planning?", Options: []string{"Landing Page", "Portfolio", "E-Commerce", "Corporate"}},
		{Key: keyFeatures, Prompt: "Which features should it include?", Options: []string{"Login", "Payments", "AI", "Dashboard"}},
		{Key: keyAudience, Prompt: "Who is the main audience for it?"},
	},
	"app": {
		{Key: keyFeatures, Prompt: "Which key features would your app need?", Options: []string{"Login", "Payments", "AI", "Dashboard"}},
		{Key: keyAudience, Prompt: "Who will be using the app?"},
	},
	"bot": {
		{Key: keyFeatures, Prompt: "What tasks should your bot handle?", Options: []string{"Chat", "Automation", "Support", "Integration"}},
		{Key: keyGoal, Prompt: "What outcome do you expect from the bot?"},
	},
}

// genericQuestions cubre "automation" y cualquier categoría no reconocida.
var genericQuestions = []Question{
	{Key: keyFeatures, Prompt: "Which features matter most for your project?", Options: []string{"Automation", "AI", "Integration", "Dashboard"}},
	{Key: keyGoal, Prompt: "What outcome are you aiming for?"},
}

// questionsFor devuelve el set de preguntas de la categoría detectada.
func questionsFor(category string) []Question {
	if qs, ok := questionSets[category]; ok {
		return qs
	}
	return genericQuestions
}
