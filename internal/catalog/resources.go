package catalog

import "net/http"

const (
	DefaultTitle       = "CareBridge Healthcare Platform API"
	DefaultDescription = "REST API for the CareBridge healthcare management platform: patients, doctors, hospitals, " +
		"appointments, billing, chat, media, translations and supporting services. All responses use the " +
		"standard success/error envelope. Most routes require a bearer JWT."
	DefaultBasePath = "/api/v1"
)

// Default returns the CareBridge platform catalog.
func Default() *Catalog {
	return &Catalog{
		Title:       DefaultTitle,
		Version:     "1.0.0",
		Description: DefaultDescription,
		BasePath:    DefaultBasePath,
		Resources:   defaultResources(),
	}
}

func get(path, name, summary string) Action {
	return Action{Method: http.MethodGet, Path: path, Name: name, Summary: summary}
}

func post(path, name, summary string) Action {
	return Action{Method: http.MethodPost, Path: path, Name: name, Summary: summary, Body: true}
}

func patch(path, name, summary string) Action {
	return Action{Method: http.MethodPatch, Path: path, Name: name, Summary: summary, Body: true}
}

func put(path, name, summary string) Action {
	return Action{Method: http.MethodPut, Path: path, Name: name, Summary: summary, Body: true}
}

func public(a Action) Action {
	a.Public = true
	return a
}

func created(a Action) Action {
	a.Created = true
	return a
}

func paginated(a Action) Action {
	a.Paginated = true
	return a
}

func bodyless(a Action) Action {
	a.Body = false
	return a
}

func withSchemas(a Action, body, data string) Action {
	a.BodySchema = body
	a.DataSchema = data
	return a
}

func defaultResources() []Resource {
	return []Resource{
		{
			Tag:      Tag{Name: "Auth", Description: "Registration, login and token lifecycle"},
			Singular: "session", Plural: "sessions", Path: "/auth",
			Actions: []Action{
				public(created(withSchemas(post("register", "register", "Register a new account"), "Credentials", "AuthTokens"))),
				public(withSchemas(post("login", "login", "Log in with email and password"), "Credentials", "AuthTokens")),
				bodyless(post("logout", "logout", "Log out and revoke the current token")),
				public(withSchemas(post("refresh-token", "refreshToken", "Exchange a refresh token for a new access token"), "", "AuthTokens")),
				public(post("forgot-password", "forgotPassword", "Request a password reset email")),
				public(post("reset-password", "resetPassword", "Reset a password with a reset token")),
				public(post("verify-email", "verifyEmail", "Verify an email address")),
				get("me", "getCurrentUser", "Get the authenticated user's profile"),
				put("change-password", "changePassword", "Change the authenticated user's password"),
			},
		},
		{
			Tag:      Tag{Name: "Users", Description: "Platform user accounts"},
			Singular: "user", Plural: "users", Path: "/users", Kinds: CRUD,
			Actions: []Action{
				patch("{id}/status", "updateUserStatus", "Activate or deactivate a user"),
			},
		},
		{
			Tag:      Tag{Name: "Patients", Description: "Patient profiles and their clinical history"},
			Singular: "patient", Plural: "patients", Path: "/patients", Kinds: CRUD,
			Actions: []Action{
				paginated(get("{id}/medical-records", "listPatientMedicalRecords", "List a patient's medical records")),
				paginated(get("{id}/appointments", "listPatientAppointments", "List a patient's appointments")),
				paginated(get("{id}/prescriptions", "listPatientPrescriptions", "List a patient's prescriptions")),
			},
		},
		{
			Tag:      Tag{Name: "Doctors", Description: "Doctor profiles, availability and reviews"},
			Singular: "doctor", Plural: "doctors", Path: "/doctors", Kinds: CRUD, PublicReads: true,
			Actions: []Action{
				public(get("{id}/availability", "getDoctorAvailability", "Get a doctor's availability")),
				put("{id}/availability", "updateDoctorAvailability", "Update a doctor's availability"),
				public(paginated(get("{id}/reviews", "listDoctorReviews", "List reviews for a doctor"))),
			},
		},
		{
			Tag:      Tag{Name: "Hospitals", Description: "Hospitals and their departments"},
			Singular: "hospital", Plural: "hospitals", Path: "/hospitals", Kinds: CRUD, PublicReads: true,
			Actions: []Action{
				public(paginated(get("{id}/departments", "listHospitalDepartments", "List a hospital's departments"))),
				public(paginated(get("{id}/doctors", "listHospitalDoctors", "List doctors working at a hospital"))),
			},
		},
		{
			Tag:      Tag{Name: "Departments", Description: "Hospital departments"},
			Singular: "department", Plural: "departments", Path: "/departments", Kinds: CRUD,
		},
		{
			Tag:      Tag{Name: "Appointments", Description: "Appointment booking and lifecycle"},
			Singular: "appointment", Plural: "appointments", Path: "/appointments", Kinds: CRUD,
			Actions: []Action{
				post("{id}/cancel", "cancelAppointment", "Cancel an appointment"),
				post("{id}/reschedule", "rescheduleAppointment", "Reschedule an appointment"),
				bodyless(post("{id}/confirm", "confirmAppointment", "Confirm an appointment")),
				bodyless(post("{id}/complete", "completeAppointment", "Mark an appointment as completed")),
			},
		},
		{
			Tag:      Tag{Name: "Prescriptions", Description: "Prescriptions issued by doctors"},
			Singular: "prescription", Plural: "prescriptions", Path: "/prescriptions", Kinds: CRUD,
			Actions: []Action{
				get("{id}/pdf", "downloadPrescriptionPdf", "Download a prescription as PDF"),
			},
		},
		{
			Tag:      Tag{Name: "Medical Records", Description: "Clinical records and attachments"},
			Singular: "medical record", Plural: "medical records", Path: "/medical-records", Kinds: CRUD,
			Actions: []Action{
				created(post("{id}/attachments", "addMedicalRecordAttachment", "Attach a file to a medical record")),
			},
		},
		{
			Tag:      Tag{Name: "Lab Tests", Description: "Laboratory test orders and results"},
			Singular: "lab test", Plural: "lab tests", Path: "/lab-tests", Kinds: CRUD,
			Actions: []Action{
				post("{id}/results", "recordLabTestResults", "Record results for a lab test"),
			},
		},
		{
			Tag:      Tag{Name: "Billing", Description: "Invoices issued to patients"},
			Singular: "invoice", Plural: "invoices", Path: "/invoices", Kinds: CRUD,
			Actions: []Action{
				post("{id}/pay", "payInvoice", "Pay an invoice"),
				get("{id}/pdf", "downloadInvoicePdf", "Download an invoice as PDF"),
			},
		},
		{
			Tag:      Tag{Name: "Payments", Description: "Payment transactions"},
			Singular: "payment", Plural: "payments", Path: "/payments", Kinds: CRUD,
			Actions: []Action{
				post("{id}/refund", "refundPayment", "Refund a payment"),
			},
		},
		{
			Tag:      Tag{Name: "Insurance", Description: "Insurance policies held by patients"},
			Singular: "insurance policy", Plural: "insurance policies", Path: "/insurance", Kinds: CRUD,
			Actions: []Action{
				bodyless(post("{id}/verify", "verifyInsurancePolicy", "Verify an insurance policy with the provider")),
			},
		},
		{
			Tag:      Tag{Name: "Insurance Claims", Description: "Claims filed against insurance policies"},
			Singular: "insurance claim", Plural: "insurance claims", Path: "/insurance-claims", Kinds: CRUD,
			Actions: []Action{
				bodyless(post("{id}/submit", "submitInsuranceClaim", "Submit a claim to the insurer")),
			},
		},
		{
			Tag:      Tag{Name: "Coupons", Description: "Discount coupons"},
			Singular: "coupon", Plural: "coupons", Path: "/coupons", Kinds: CRUD,
			Actions: []Action{
				post("validate", "validateCoupon", "Validate a coupon code"),
			},
		},
		{
			Tag:      Tag{Name: "DNA Kits", Description: "At-home DNA test kits and results"},
			Singular: "dna kit", Plural: "dna kits", Path: "/dna-kits", Kinds: CRUD,
			Actions: []Action{
				post("{id}/activate", "activateDnaKit", "Activate a DNA kit"),
				get("{id}/results", "getDnaKitResults", "Get results for a DNA kit"),
			},
		},
		{
			Tag:      Tag{Name: "Pharmacies", Description: "Partner pharmacies"},
			Singular: "pharmacy", Plural: "pharmacies", Path: "/pharmacies", Kinds: CRUD, PublicReads: true,
		},
		{
			Tag:      Tag{Name: "Medications", Description: "Medication catalog"},
			Singular: "medication", Plural: "medications", Path: "/medications", Kinds: CRUD,
		},
		{
			Tag:      Tag{Name: "Orders", Description: "Pharmacy and product orders"},
			Singular: "order", Plural: "orders", Path: "/orders", Kinds: CRUD,
			Actions: []Action{
				post("{id}/cancel", "cancelOrder", "Cancel an order"),
			},
		},
		{
			Tag:      Tag{Name: "Chat", Description: "Patient and doctor conversations"},
			Singular: "conversation", Plural: "conversations", Path: "/chat/conversations", Kinds: CRUD,
			Actions: []Action{
				paginated(get("{id}/messages", "listConversationMessages", "List messages in a conversation")),
				created(post("{id}/messages", "sendConversationMessage", "Send a message to a conversation")),
			},
		},
		{
			Tag:      Tag{Name: "Notifications", Description: "In-app notifications"},
			Singular: "notification", Plural: "notifications", Path: "/notifications", Kinds: CRUD,
			Actions: []Action{
				bodyless(patch("{id}/read", "markNotificationRead", "Mark a notification as read")),
				bodyless(post("mark-all-read", "markAllNotificationsRead", "Mark all notifications as read")),
			},
		},
		{
			Tag:      Tag{Name: "Media", Description: "Uploaded images, documents and videos"},
			Singular: "media item", Plural: "media items", Path: "/media", Kinds: CRUD,
			Actions: []Action{
				created(post("upload", "uploadMedia", "Upload a media file")),
			},
		},
		{
			Tag:      Tag{Name: "Translations", Description: "Localized UI strings"},
			Singular: "translation", Plural: "translations", Path: "/translations", Kinds: CRUD, PublicReads: true,
			Actions: []Action{
				public(get("locales/{locale}", "getTranslationsByLocale", "Get all translations for a locale")),
			},
		},
		{
			Tag:      Tag{Name: "Reviews", Description: "Patient reviews of doctors and hospitals"},
			Singular: "review", Plural: "reviews", Path: "/reviews", Kinds: CRUD,
		},
		{
			Tag:      Tag{Name: "Telemedicine", Description: "Video consultation sessions"},
			Singular: "telemedicine session", Plural: "telemedicine sessions", Path: "/telemedicine-sessions", Kinds: CRUD,
			Actions: []Action{
				bodyless(post("{id}/start", "startTelemedicineSession", "Start a telemedicine session")),
				bodyless(post("{id}/end", "endTelemedicineSession", "End a telemedicine session")),
			},
		},
		{
			Tag:      Tag{Name: "Vaccinations", Description: "Vaccination records"},
			Singular: "vaccination", Plural: "vaccinations", Path: "/vaccinations", Kinds: CRUD,
		},
		{
			Tag:      Tag{Name: "Allergies", Description: "Patient allergies"},
			Singular: "allergy", Plural: "allergies", Path: "/allergies", Kinds: CRUD,
		},
		{
			Tag:      Tag{Name: "Nurses", Description: "Nursing staff"},
			Singular: "nurse", Plural: "nurses", Path: "/nurses", Kinds: CRUD,
		},
		{
			Tag:      Tag{Name: "Wards", Description: "Hospital wards and beds"},
			Singular: "ward", Plural: "wards", Path: "/wards", Kinds: CRUD,
		},
		{
			Tag:      Tag{Name: "Emergency Contacts", Description: "Patient emergency contacts"},
			Singular: "emergency contact", Plural: "emergency contacts", Path: "/emergency-contacts", Kinds: CRUD,
		},
		{
			Tag:      Tag{Name: "Specialties", Description: "Medical specialties"},
			Singular: "specialty", Plural: "specialties", Path: "/specialties", Kinds: CRUD, PublicReads: true,
		},
		{
			Tag:      Tag{Name: "Subscriptions", Description: "Membership plans and subscriptions"},
			Singular: "subscription", Plural: "subscriptions", Path: "/subscriptions", Kinds: CRUD,
			Actions: []Action{
				post("{id}/cancel", "cancelSubscription", "Cancel a subscription"),
			},
		},
		{
			Tag:      Tag{Name: "Settings", Description: "Platform settings"},
			Singular: "setting", Plural: "settings", Path: "/settings", Kinds: CRUD,
		},
		{
			Tag:      Tag{Name: "Reports", Description: "Operational and clinical reports"},
			Singular: "report", Plural: "reports", Path: "/reports", Kinds: CRUD,
			Actions: []Action{
				get("{id}/export", "exportReport", "Export a report"),
			},
		},
		{
			Tag:      Tag{Name: "Audit Logs", Description: "Read-only audit trail"},
			Singular: "audit log", Plural: "audit logs", Path: "/audit-logs", Kinds: ReadOnly,
		},
		{
			Tag:      Tag{Name: "Dashboard", Description: "Aggregated statistics for dashboards"},
			Singular: "dashboard", Plural: "dashboards", Path: "/dashboard",
			Actions: []Action{
				get("stats", "getDashboardStats", "Get headline statistics"),
				get("revenue", "getDashboardRevenue", "Get revenue statistics"),
				get("appointments", "getDashboardAppointments", "Get appointment statistics"),
			},
		},
		{
			Tag:      Tag{Name: "Articles", Description: "Health articles and blog posts"},
			Singular: "article", Plural: "articles", Path: "/articles", Kinds: CRUD, PublicReads: true,
		},
		{
			Tag:      Tag{Name: "FAQs", Description: "Frequently asked questions"},
			Singular: "faq", Plural: "faqs", Path: "/faqs", Kinds: CRUD, PublicReads: true,
		},
		{
			Tag:      Tag{Name: "Support Tickets", Description: "Customer support tickets"},
			Singular: "support ticket", Plural: "support tickets", Path: "/support-tickets", Kinds: CRUD,
			Actions: []Action{
				created(post("{id}/replies", "replyToSupportTicket", "Reply to a support ticket")),
			},
		},
		{
			Tag:      Tag{Name: "Ambulances", Description: "Ambulance fleet and dispatch"},
			Singular: "ambulance", Plural: "ambulances", Path: "/ambulances", Kinds: CRUD,
			Actions: []Action{
				post("{id}/dispatch", "dispatchAmbulance", "Dispatch an ambulance"),
			},
		},
		{
			Tag:      Tag{Name: "Blood Bank", Description: "Blood donations and inventory"},
			Singular: "blood donation", Plural: "blood donations", Path: "/blood-donations", Kinds: CRUD,
		},
		{
			Tag:      Tag{Name: "Diet Plans", Description: "Nutrition and diet plans"},
			Singular: "diet plan", Plural: "diet plans", Path: "/diet-plans", Kinds: CRUD,
		},
		{
			Tag:      Tag{Name: "Health Packages", Description: "Bundled health check packages"},
			Singular: "health package", Plural: "health packages", Path: "/health-packages", Kinds: CRUD, PublicReads: true,
		},
		{
			Tag:      Tag{Name: "Symptoms", Description: "Symptom catalog and checker"},
			Singular: "symptom", Plural: "symptoms", Path: "/symptoms", Kinds: CRUD,
			Actions: []Action{
				public(post("check", "checkSymptoms", "Run the symptom checker")),
			},
		},
		{
			Tag:      Tag{Name: "Caregivers", Description: "Family members and caregivers"},
			Singular: "caregiver", Plural: "caregivers", Path: "/caregivers", Kinds: CRUD,
		},
		{
			Tag:      Tag{Name: "Clinics", Description: "Outpatient clinics"},
			Singular: "clinic", Plural: "clinics", Path: "/clinics", Kinds: CRUD, PublicReads: true,
		},
		{
			Tag:      Tag{Name: "Referrals", Description: "Referrals between doctors"},
			Singular: "referral", Plural: "referrals", Path: "/referrals", Kinds: CRUD,
			Actions: []Action{
				bodyless(post("{id}/accept", "acceptReferral", "Accept a referral")),
			},
		},
		{
			Tag:      Tag{Name: "Shifts", Description: "Staff shift schedules"},
			Singular: "shift", Plural: "shifts", Path: "/shifts", Kinds: CRUD,
		},
		{
			Tag:      Tag{Name: "Feedback", Description: "Product feedback"},
			Singular: "feedback entry", Plural: "feedback entries", Path: "/feedback", Kinds: CRUD,
		},
		{
			Tag:      Tag{Name: "Banners", Description: "Promotional banners"},
			Singular: "banner", Plural: "banners", Path: "/banners", Kinds: CRUD, PublicReads: true,
		},
	}
}
