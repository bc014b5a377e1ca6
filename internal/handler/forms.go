package handler

type preferenceForm struct {
	Month string `schema:"month" json:"-" validate:"required,month" label:"対象月"`
	Staff string `schema:"staff" json:"staff" validate:"required,max=64" label:"氏名"`
	Text  string `schema:"request_text" json:"text" validate:"required,max=2000" label:"希望内容"`
	Note  string `schema:"request_note" json:"note" validate:"max=1000" label:"備考"`
}

type travelForm struct {
	Month string `schema:"month" validate:"required,month" label:"対象月"`
	Staff string `schema:"staff" validate:"required,max=64" label:"氏名"`
	// 不是整数时作为未填写处理
	Days  string `schema:"travel_days" label:"出張日数"`
	Dates string `schema:"travel_dates" validate:"max=500" label:"出張日"`
}

type scheduleForm struct {
	Month     string `schema:"month" json:"-" validate:"required,month" label:"対象月"`
	Table     string `schema:"table_text" json:"table" validate:"required" label:"勤務表"`
	Tally     string `schema:"counts_text" json:"tally" label:"回数集計"`
	ChangeLog string `schema:"change_log" json:"changeLog" label:"変更ログ"`
	Status    string `schema:"save_type" json:"status" validate:"omitempty,oneof=draft final" label:"保存種別"`
	Version   *int32 `schema:"-" json:"version" label:"版"`

	// 管理画面的表单同时带着两种状态的版本号，按保存种别选择
	DraftVersion *int32 `schema:"draft_version" json:"-"`
	FinalVersion *int32 `schema:"final_version" json:"-"`
}

type ruleSetForm struct {
	Month           string `schema:"month"`
	Editor          string `schema:"editor" validate:"required,max=64" label:"編集者"`
	StaffList       string `schema:"staff_list" validate:"required" label:"スタッフ一覧"`
	BaseRules       string `schema:"base_rules" validate:"required" label:"基本ルール"`
	IndividualRules string `schema:"individual_rules" validate:"required" label:"個別制約"`
	AdditionalRules string `schema:"additional_rules" validate:"required" label:"追加ルール"`
}
