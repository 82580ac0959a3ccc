package controllers

import (
	"errors"
	"strings"

	"github.com/muhammedanshif/rentEase/db/models"
	"github.com/muhammedanshif/rentEase/emergency/repositories"
	"github.com/muhammedanshif/rentEase/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type EmergencyContactController struct {
	ContactRepo repositories.EmergencyContactRepository
	DB          *gorm.DB
}

// ContactRequest leaves available_24x7 as a pointer so an omitted value means true.
type ContactRequest struct {
	ServiceType    string  `json:"service_type" validate:"required,max=100"`
	ContactName    *string `json:"contact_name"`
	PhoneNumber    string  `json:"phone_number" validate:"required,max=20"`
	AlternatePhone *string `json:"alternate_phone" validate:"omitempty,max=20"`
	Available24x7  *bool   `json:"available_24x7"`
}

func (r *ContactRequest) available() bool {
	return r.Available24x7 == nil || *r.Available24x7
}

func (ec *EmergencyContactController) CreateContactController(c *fiber.Ctx) error {
	var req ContactRequest
	if err := utils.BindJSON(c, &req); err != nil {
		return utils.RespondError(c, err)
	}

	contact, err := ec.ContactRepo.CreateContact(&models.EmergencyContact{
		ServiceType:    strings.TrimSpace(req.ServiceType),
		ContactName:    utils.OptionalString(req.ContactName),
		PhoneNumber:    strings.TrimSpace(req.PhoneNumber),
		AlternatePhone: utils.OptionalString(req.AlternatePhone),
		Available24x7:  req.available(),
	})
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to create emergency contact", err))
	}
	return utils.RespondOK(c, fiber.StatusCreated, "Emergency contact created successfully", contact)
}

func (ec *EmergencyContactController) GetContactsController(c *fiber.Ctx) error {
	contacts, err := ec.ContactRepo.GetContacts()
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to fetch emergency contacts", err))
	}
	return utils.RespondOK(c, fiber.StatusOK, "Emergency contacts retrieved successfully", contacts)
}

func (ec *EmergencyContactController) UpdateContactController(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"), "contact id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	var req ContactRequest
	if err := utils.BindJSON(c, &req); err != nil {
		return utils.RespondError(c, err)
	}

	contact, err := ec.ContactRepo.UpdateContact(id, map[string]interface{}{
		"service_type":    strings.TrimSpace(req.ServiceType),
		"contact_name":    utils.OptionalString(req.ContactName),
		"phone_number":    strings.TrimSpace(req.PhoneNumber),
		"alternate_phone": utils.OptionalString(req.AlternatePhone),
		"available_24x7":  req.available(),
	})
	if err != nil {
		return utils.RespondError(c, contactError(err, "Failed to update emergency contact"))
	}
	return utils.RespondOK(c, fiber.StatusOK, "Emergency contact updated successfully", contact)
}

func (ec *EmergencyContactController) DeleteContactController(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"), "contact id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	if err := ec.ContactRepo.DeleteContact(id); err != nil {
		return utils.RespondError(c, contactError(err, "Failed to delete emergency contact"))
	}
	return utils.RespondOK(c, fiber.StatusOK, "Emergency contact deleted successfully", nil)
}

func contactError(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NotFoundError("Emergency contact")
	}
	return utils.InternalError(message, err)
}
