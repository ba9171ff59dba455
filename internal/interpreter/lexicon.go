package interpreter

// BaseLanguage is the language translations are requested in and the
// detector's fallback when no lexicon matches.
const BaseLanguage = "en"

// Lexicon holds the trigger words of one language.
type Lexicon struct {
	On      []string
	Off     []string
	Lights  []string
	All     []string
	Numbers map[string]int
}

type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// languages is also the detection order: the first language with a matching
// keyword wins.
var languages = []Language{
	{Code: "en", Name: "English"},
	{Code: "hi", Name: "Hindi"},
	{Code: "es", Name: "Spanish"},
	{Code: "fr", Name: "French"},
	{Code: "de", Name: "German"},
	{Code: "it", Name: "Italian"},
	{Code: "pt", Name: "Portuguese"},
	{Code: "ru", Name: "Russian"},
	{Code: "ja", Name: "Japanese"},
	{Code: "ko", Name: "Korean"},
	{Code: "zh", Name: "Chinese"},
	{Code: "ar", Name: "Arabic"},
}

var lexicons = map[string]Lexicon{
	"en": {
		On:      []string{"on", "turn on", "switch on", "activate", "enable", "start", "open"},
		Off:     []string{"off", "turn off", "switch off", "deactivate", "disable", "stop", "close"},
		Lights:  []string{"light", "lights", "bulb", "bulbs", "lamp", "lamps"},
		All:     []string{"all", "every", "everything", "each"},
		Numbers: map[string]int{"one": 1, "two": 2, "three": 3, "four": 4, "1": 1, "2": 2, "3": 3, "4": 4},
	},
	"hi": {
		On:      []string{"चालू", "ऑन", "शुरू", "खोलो", "स्टार्ट"},
		Off:     []string{"बंद", "ऑफ", "रोको", "बंद करो", "बंद करें"},
		Lights:  []string{"लाइट", "लाइट्स", "बल्ब", "बल्ब्स", "दीया", "लैंप"},
		All:     []string{"सब", "सभी", "हर", "प्रत्येक"},
		Numbers: map[string]int{"एक": 1, "दो": 2, "तीन": 3, "चार": 4, "1": 1, "2": 2, "3": 3, "4": 4},
	},
	"es": {
		On:      []string{"encender", "prender", "activar", "abrir"},
		Off:     []string{"apagar", "desactivar", "cerrar"},
		Lights:  []string{"luz", "luces", "foco", "focos", "lámpara"},
		All:     []string{"todo", "todos", "cada"},
		Numbers: map[string]int{"uno": 1, "dos": 2, "tres": 3, "cuatro": 4},
	},
	"fr": {
		On:      []string{"allumer", "activer", "ouvrir"},
		Off:     []string{"éteindre", "désactiver", "fermer"},
		Lights:  []string{"lumière", "lumières", "ampoule", "ampoules"},
		All:     []string{"tout", "tous", "chaque"},
		Numbers: map[string]int{"un": 1, "deux": 2, "trois": 3, "quatre": 4},
	},
	"de": {
		On:      []string{"einschalten", "anmachen", "aktivieren"},
		Off:     []string{"ausschalten", "ausmachen", "deaktivieren"},
		Lights:  []string{"licht", "lichter", "birne", "birnen", "lampe"},
		All:     []string{"alle", "jede", "alles"},
		Numbers: map[string]int{"eins": 1, "zwei": 2, "drei": 3, "vier": 4},
	},
	"it": {
		On:      []string{"accendere", "attivare", "aprire"},
		Off:     []string{"spegnere", "disattivare", "chiudere"},
		Lights:  []string{"luce", "luci", "lampadina", "lampadine"},
		All:     []string{"tutto", "tutti", "ogni"},
		Numbers: map[string]int{"uno": 1, "due": 2, "tre": 3, "quattro": 4},
	},
	"pt": {
		On:      []string{"ligar", "ativar", "abrir"},
		Off:     []string{"desligar", "desativar", "fechar"},
		Lights:  []string{"luz", "luzes", "lâmpada", "lâmpadas"},
		All:     []string{"tudo", "todos", "cada"},
		Numbers: map[string]int{"um": 1, "dois": 2, "três": 3, "quatro": 4},
	},
	"ru": {
		On:      []string{"включить", "активировать", "открыть"},
		Off:     []string{"выключить", "деактивировать", "закрыть"},
		Lights:  []string{"свет", "лампочка", "лампа"},
		All:     []string{"все", "каждый"},
		Numbers: map[string]int{"один": 1, "два": 2, "три": 3, "четыре": 4},
	},
	"ja": {
		On:      []string{"オン", "つける", "開始"},
		Off:     []string{"オフ", "消す", "停止"},
		Lights:  []string{"光", "ライト", "電球", "ランプ"},
		All:     []string{"すべて", "全体", "各"},
		Numbers: map[string]int{"一": 1, "二": 2, "三": 3, "四": 4},
	},
	"ko": {
		On:      []string{"켜다", "시작", "활성화"},
		Off:     []string{"끄다", "중지", "비활성화"},
		Lights:  []string{"빛", "조명", "전구", "램프"},
		All:     []string{"모든", "전체", "각"},
		Numbers: map[string]int{"일": 1, "이": 2, "삼": 3, "사": 4},
	},
	"zh": {
		On:      []string{"打开", "开启", "启动"},
		Off:     []string{"关闭", "关掉", "停止"},
		Lights:  []string{"灯", "灯光", "灯泡"},
		All:     []string{"所有", "全部", "每个"},
		Numbers: map[string]int{"一": 1, "二": 2, "三": 3, "四": 4},
	},
	"ar": {
		On:      []string{"تشغيل", "فتح", "بدء"},
		Off:     []string{"إيقاف", "إغلاق", "تعطيل"},
		Lights:  []string{"ضوء", "أضواء", "لمبة", "مصباح"},
		All:     []string{"كل", "جميع", "كامل"},
		Numbers: map[string]int{"واحد": 1, "اثنان": 2, "ثلاثة": 3, "أربعة": 4},
	},
}

// SupportedLanguages returns the supported languages in detection order.
func SupportedLanguages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

// LanguageNames maps each supported language code to its English name.
func LanguageNames() map[string]string {
	names := make(map[string]string, len(languages))
	for _, l := range languages {
		names[l.Code] = l.Name
	}
	return names
}

func IsSupported(code string) bool {
	_, ok := lexicons[code]
	return ok
}

// LexiconFor returns a copy of the lexicon for code. Unknown codes return false.
func LexiconFor(code string) (Lexicon, bool) {
	lex, ok := lexicons[code]
	if !ok {
		return Lexicon{}, false
	}
	numbers := make(map[string]int, len(lex.Numbers))
	for w, n := range lex.Numbers {
		numbers[w] = n
	}
	return Lexicon{
		On:      append([]string(nil), lex.On...),
		Off:     append([]string(nil), lex.Off...),
		Lights:  append([]string(nil), lex.Lights...),
		All:     append([]string(nil), lex.All...),
		Numbers: numbers,
	}, true
}
