package handler

import (
	"time"

	"timeclock.service/internal/core/model"
	"timeclock.service/internal/core/timecalc"
	"timeclock.service/internal/core/validation"
)

// Wire types. Field names follow the kiosk's JSON contract.

type ShiftDTO struct {
	ShiftID    int64  `json:"shiftId"`
	UserID     string `json:"userId"`
	Name       string `json:"name"`
	Date       string `json:"date"`
	ClockIn    string `json:"clockIn"`
	ClockOut   string `json:"clockOut"`
	TimeWorked string `json:"timeWorked"`
}

type UserDTO struct {
	UserID                 string `json:"userId"`
	Name                   string `json:"name"`
	PhoneNumber            string `json:"phoneNumber"`
	Email                  string `json:"email"`
	PhysicalMailingAddress string `json:"physicalMailingAddress"`
	YearVerified           *int   `json:"yearVerified"`
	Hidden                 bool   `json:"hidden"`
}

type NoteDTO struct {
	ID         int64     `json:"id"`
	Note       string    `json:"note"`
	InsertTime time.Time `json:"insertTime"`
}

type ClockOutRequest struct {
	ShiftID  int64  `json:"shiftId"`
	UserID   string `json:"userId"`
	ClockOut string `json:"clockOut"`
}

type ShiftUpdateRequest struct {
	ShiftID  int64  `json:"shiftId"`
	ClockIn  string `json:"clockIn"`
	ClockOut string `json:"clockOut"`
}

type CountResponse struct {
	Count int64  `json:"count"`
	Date  string `json:"date"`
}

type DeletedResponse struct {
	Deleted int64 `json:"deleted"`
}

type ValidateRequest struct {
	Password string `json:"password"`
}

type ValidateResponse struct {
	Valid bool   `json:"valid"`
	Token string `json:"token,omitempty"`
}

type StepResponse struct {
	Step string `json:"step"`
}

// UserShiftResponse answers registration and verification, which may both
// open a shift.
type UserShiftResponse struct {
	User  UserDTO   `json:"user"`
	Shift *ShiftDTO `json:"shift,omitempty"`
}

type NoteRequest struct {
	Note string `json:"note"`
}

type NoteSavedResponse struct {
	Saved bool `json:"saved"`
}

type ReportQueuedResponse struct {
	RequestID  string `json:"requestId"`
	ReportDate string `json:"reportDate"`
}

type NormalizedResponse struct {
	Updated int `json:"updated"`
}

func NewShiftDTO(s model.Shift, loc *time.Location) ShiftDTO {
	dto := ShiftDTO{
		ShiftID:    s.ID,
		UserID:     s.UserID,
		Name:       s.Name,
		Date:       s.ClockIn.In(loc).Format(timecalc.DateLayout),
		ClockIn:    timecalc.FormatClock(s.ClockIn, loc),
		TimeWorked: s.TimeWorked,
	}
	if s.ClockOut != nil {
		dto.ClockOut = timecalc.FormatClock(*s.ClockOut, loc)
	}
	return dto
}

func NewUserDTO(u model.User) UserDTO {
	return UserDTO{
		UserID:                 u.ID,
		Name:                   u.Name,
		PhoneNumber:            u.PhoneNumber,
		Email:                  u.Email,
		PhysicalMailingAddress: u.PhysicalMailingAddress,
		YearVerified:           u.YearVerified,
		Hidden:                 u.Hidden,
	}
}

func (d UserDTO) Model() model.User {
	return model.User{
		ID:                     d.UserID,
		Name:                   d.Name,
		PhoneNumber:            d.PhoneNumber,
		Email:                  d.Email,
		PhysicalMailingAddress: d.PhysicalMailingAddress,
		YearVerified:           d.YearVerified,
		Hidden:                 d.Hidden,
	}
}

func (d UserDTO) Contact() validation.Contact {
	return validation.Contact{
		Name:                   d.Name,
		PhoneNumber:            d.PhoneNumber,
		Email:                  d.Email,
		PhysicalMailingAddress: d.PhysicalMailingAddress,
	}
}
