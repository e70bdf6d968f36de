// academics.go
//
// Schema relationship orchestration for the mn-school-db administration backend
// Copyright (c) 2026 lgadza (https://github.com/lgadza), mn-school-db contributors
//
// This file is part of mn-school-db.
// mn-school-db is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// mn-school-db is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with mn-school-db.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 lgadza (https://github.com/lgadza), mn-school-db contributors"
//    in this material, copies, or source code of derived works.

package models

import "time"

// School is the tenant root. Every other academic entity is scoped to one school.
type School struct {
	Base
	Name       string     `gorm:"size:255;not null" json:"name"`
	Code       string     `gorm:"size:32;not null;uniqueIndex" json:"code"`
	Attributes Attributes `json:"attributes"`

	Departments []Department `json:"departments,omitempty"`
	SchoolYears []SchoolYear `json:"schoolYears,omitempty"`
	Users       []User       `json:"users,omitempty"`
}

// Department groups subjects within a school.
type Department struct {
	Base
	SchoolID string `gorm:"type:char(36);not null;index" json:"schoolId"`
	Name     string `gorm:"size:255;not null" json:"name"`
	Code     string `gorm:"size:32" json:"code"`

	School   *School   `json:"school,omitempty"`
	Subjects []Subject `json:"subjects,omitempty"`
}

// Category is a cross-department classification of subjects (core, elective, ...).
type Category struct {
	Base
	SchoolID string `gorm:"type:char(36);not null;index" json:"schoolId"`
	Name     string `gorm:"size:255;not null" json:"name"`

	Subjects []Subject `json:"subjects,omitempty"`
}

// Subject is a taught course. CategoryID is optional.
type Subject struct {
	Base
	SchoolID     string  `gorm:"type:char(36);not null;index" json:"schoolId"`
	DepartmentID string  `gorm:"type:char(36);not null;index" json:"departmentId"`
	CategoryID   *string `gorm:"type:char(36);index" json:"categoryId"`
	Name         string  `gorm:"size:255;not null" json:"name"`
	Code         string  `gorm:"size:32" json:"code"`
	Credits      int     `json:"credits"`

	Department *Department `json:"department,omitempty"`
	Category   *Category   `json:"category,omitempty"`
}

// SchoolYear is an academic year of a school.
type SchoolYear struct {
	Base
	SchoolID string    `gorm:"type:char(36);not null;index" json:"schoolId"`
	Label    string    `gorm:"size:64;not null" json:"label"`
	StartsOn time.Time `json:"startsOn"`
	EndsOn   time.Time `json:"endsOn"`

	School  *School  `json:"school,omitempty"`
	Periods []Period `json:"periods,omitempty"`
}

// Period is a timetable slot within a school year. Times are wall clock "HH:MM".
type Period struct {
	Base
	SchoolYearID string `gorm:"type:char(36);not null;index" json:"schoolYearId"`
	Name         string `gorm:"size:64;not null" json:"name"`
	StartTime    string `gorm:"size:5;not null" json:"startTime"`
	EndTime      string `gorm:"size:5;not null" json:"endTime"`
	Position     int    `gorm:"not null;default:0" json:"position"`

	SchoolYear *SchoolYear `json:"schoolYear,omitempty"`
}

// TableName overrides the table name for School
func (School) TableName() string {
	return "schools"
}

// TableName overrides the table name for Department
func (Department) TableName() string {
	return "departments"
}

// TableName overrides the table name for Category
func (Category) TableName() string {
	return "categories"
}

// TableName overrides the table name for Subject
func (Subject) TableName() string {
	return "subjects"
}

// TableName overrides the table name for SchoolYear
func (SchoolYear) TableName() string {
	return "school_years"
}

// TableName overrides the table name for Period
func (Period) TableName() string {
	return "periods"
}
