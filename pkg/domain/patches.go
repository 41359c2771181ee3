package domain

// Patch types carry partial updates. A nil field leaves the existing
// value untouched; a non-nil field replaces it wholesale, including
// slice fields (shallow merge, no element-level merging).

// ProgramPatch is a partial update of a Program.
type ProgramPatch struct {
	Name         *string        `json:"name,omitempty"`
	WaveTitle    *string        `json:"wave_title,omitempty"`
	Location     *string        `json:"location,omitempty"`
	StartDate    *string        `json:"start_date,omitempty"`
	EndDate      *string        `json:"end_date,omitempty"`
	Status       *ProgramStatus `json:"status,omitempty"`
	Description  *string        `json:"description,omitempty"`
	Modules      *[]string      `json:"modules,omitempty"`
	SMEsInvolved *[]string      `json:"smes_involved,omitempty"`
	DaysOfWeek   *[]string      `json:"days_of_week,omitempty"`
}

// Apply merges the provided fields into p.
func (patch ProgramPatch) Apply(p *Program) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.WaveTitle != nil {
		p.WaveTitle = *patch.WaveTitle
	}
	if patch.Location != nil {
		p.Location = *patch.Location
	}
	if patch.StartDate != nil {
		p.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		p.EndDate = *patch.EndDate
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Modules != nil {
		p.Modules = append([]string(nil), (*patch.Modules)...)
	}
	if patch.SMEsInvolved != nil {
		p.SMEsInvolved = append([]string(nil), (*patch.SMEsInvolved)...)
	}
	if patch.DaysOfWeek != nil {
		p.DaysOfWeek = append([]string(nil), (*patch.DaysOfWeek)...)
	}
}

// SessionPatch is a partial update of a Session. WaveID is changed only
// when explicitly set, in which case the session moves between wave
// partitions.
type SessionPatch struct {
	Day       *string      `json:"day,omitempty"`
	Date      *string      `json:"date,omitempty"`
	TimeStart *string      `json:"time_start,omitempty"`
	TimeEnd   *string      `json:"time_end,omitempty"`
	Training  *string      `json:"training,omitempty"`
	SME       *string      `json:"sme,omitempty"`
	Type      *SessionType `json:"type,omitempty"`
	Resources *[]string    `json:"resources,omitempty"`
	WaveID    *string      `json:"wave_id,omitempty"`
}

// Apply merges the provided fields into s.
func (patch SessionPatch) Apply(s *Session) {
	if patch.Day != nil {
		s.Day = *patch.Day
	}
	if patch.Date != nil {
		s.Date = *patch.Date
	}
	if patch.TimeStart != nil {
		s.TimeStart = *patch.TimeStart
	}
	if patch.TimeEnd != nil {
		s.TimeEnd = *patch.TimeEnd
	}
	if patch.Training != nil {
		s.Training = *patch.Training
	}
	if patch.SME != nil {
		s.SME = *patch.SME
	}
	if patch.Type != nil {
		s.Type = *patch.Type
	}
	if patch.Resources != nil {
		s.Resources = append([]string(nil), (*patch.Resources)...)
	}
	if patch.WaveID != nil {
		s.WaveID = *patch.WaveID
	}
}

// SMEPatch is a partial update of an SME.
type SMEPatch struct {
	Name      *string   `json:"name,omitempty"`
	Market    *string   `json:"market,omitempty"`
	Vendors   *[]string `json:"vendors,omitempty"`
	Roles     *[]string `json:"roles,omitempty"`
	PolicySME *string   `json:"policy_sme,omitempty"`
	Space     *SMESpace `json:"space,omitempty"`
	Location  *string   `json:"location,omitempty"`
}

// Apply merges the provided fields into s.
func (patch SMEPatch) Apply(s *SME) {
	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.Market != nil {
		s.Market = *patch.Market
	}
	if patch.Vendors != nil {
		s.Vendors = append([]string(nil), (*patch.Vendors)...)
	}
	if patch.Roles != nil {
		s.Roles = append([]string(nil), (*patch.Roles)...)
	}
	if patch.PolicySME != nil {
		s.PolicySME = *patch.PolicySME
	}
	if patch.Space != nil {
		s.Space = *patch.Space
	}
	if patch.Location != nil {
		s.Location = *patch.Location
	}
}

// VendorContactPatch is a partial update of a VendorContact.
type VendorContactPatch struct {
	Name           *string `json:"name,omitempty"`
	Role           *string `json:"role,omitempty"`
	Vendor         *string `json:"vendor,omitempty"`
	Location       *string `json:"location,omitempty"`
	PrimaryContact *string `json:"primary_contact,omitempty"`
	Email          *string `json:"email,omitempty"`
	Phone          *string `json:"phone,omitempty"`
}

// Apply merges the provided fields into c.
func (patch VendorContactPatch) Apply(c *VendorContact) {
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Role != nil {
		c.Role = *patch.Role
	}
	if patch.Vendor != nil {
		c.Vendor = *patch.Vendor
	}
	if patch.Location != nil {
		c.Location = *patch.Location
	}
	if patch.PrimaryContact != nil {
		c.PrimaryContact = *patch.PrimaryContact
	}
	if patch.Email != nil {
		c.Email = *patch.Email
	}
	if patch.Phone != nil {
		c.Phone = *patch.Phone
	}
}
