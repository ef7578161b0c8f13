package lf

import "go.uber.org/zap"

const (
	FieldModule    = "module"
	FieldStudentID = "student_id"
	FieldStudentNo = "student_no"
	FieldQuery     = "query"
	FieldCount     = "count"
	FieldModel     = "model"
	FieldChatID    = "chat_id"
)

func Module(module string) zap.Field {
	return zap.String(FieldModule, module)
}

func StudentID(id string) zap.Field {
	return zap.String(FieldStudentID, id)
}

func StudentNo(no string) zap.Field {
	return zap.String(FieldStudentNo, no)
}

func Query(query string) zap.Field {
	return zap.String(FieldQuery, query)
}

func Count(count int) zap.Field {
	return zap.Int(FieldCount, count)
}

func Model(model string) zap.Field {
	return zap.String(FieldModel, model)
}

func ChatID(id int64) zap.Field {
	return zap.Int64(FieldChatID, id)
}
