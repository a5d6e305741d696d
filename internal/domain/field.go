package domain

// Field names a draft field; values match the JSON keys of the wire payload
type Field string

const (
	FieldFirstName          Field = "firstName"
	FieldLastName           Field = "lastName"
	FieldStartDate          Field = "startDate"
	FieldEndDate            Field = "endDate"
	FieldCountry            Field = "country"
	FieldCurrency           Field = "currency"
	FieldProjectCode        Field = "projectCode"
	FieldProjectDescription Field = "projectDescription"
	FieldAmount             Field = "amount"
)

// Fields lists every draft field in form order
var Fields = []Field{
	FieldFirstName,
	FieldLastName,
	FieldStartDate,
	FieldEndDate,
	FieldCountry,
	FieldCurrency,
	FieldAmount,
	FieldProjectCode,
	FieldProjectDescription,
}

// Label returns the human-readable field label
func (f Field) Label() string {
	switch f {
	case FieldFirstName:
		return "First name"
	case FieldLastName:
		return "Last name"
	case FieldStartDate:
		return "Start date"
	case FieldEndDate:
		return "End date"
	case FieldCountry:
		return "Country"
	case FieldCurrency:
		return "Currency"
	case FieldProjectCode:
		return "Project Code"
	case FieldProjectDescription:
		return "Project Description"
	case FieldAmount:
		return "Amount"
	default:
		return string(f)
	}
}
