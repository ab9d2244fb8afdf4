package validation

func msg(lang Lang, he, en string) string {
	if lang == En {
		return en
	}
	return he
}

func messageForTag(tag, param, field string, lang Lang) string {
	switch tag {
	case "required", "required_if":
		return msg(lang, "שדה חובה.", "This field is required.")
	case "email":
		return msg(lang, "כתובת אימייל לא תקינה.", "Please enter a valid email address.")
	case "person_name":
		return msg(lang,
			"השם חייב להכיל 2-100 אותיות בעברית או באנגלית בלבד.",
			"Name must be 2-100 Hebrew or English letters.")
	case "il_phone":
		return msg(lang,
			"מספר טלפון לא תקין (לדוגמה 0501234567).",
			"Invalid phone number (e.g. 0501234567).")
	case "strong_password":
		return msg(lang,
			"הסיסמה חייבת להכיל לפחות 8 תווים, אות גדולה באנגלית וספרה.",
			"Password must be at least 8 characters with an uppercase letter and a digit.")
	case "min":
		return msg(lang, "יש להזין לפחות "+param+" תווים.", "Must be at least "+param+" characters.")
	case "max":
		return msg(lang, "ניתן להזין עד "+param+" תווים.", "Must be at most "+param+" characters.")
	case "gte":
		return msg(lang, "הערך חייב להיות לפחות "+param+".", "Must be at least "+param+".")
	case "lte":
		return msg(lang, "הערך חייב להיות לכל היותר "+param+".", "Must be at most "+param+".")
	case "oneof":
		return msg(lang, "ערך לא חוקי עבור "+field+".", "Invalid value for "+field+".")
	default:
		return msg(lang, "ערך לא תקין.", "Invalid value.")
	}
}
