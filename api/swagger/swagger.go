package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Academy Enrollment API",
        "description": "Enrollment submission, notification and payment proof endpoints",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Enrollment", "description": "Public enrollment workflow"},
        {"name": "Admin", "description": "Staff access to persisted enrollments"}
    ],
    "paths": {
        "/enrollment/process": {
            "post": {
                "tags": ["Enrollment"],
                "summary": "Submit an enrollment",
                "description": "Validates the wizard payload, persists the enrollment and sends best-effort notifications.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProcessEnrollmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ProcessEnrollmentResponse"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "500": {"description": "Persistence failed", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/enrollment/submit": {
            "post": {
                "tags": ["Enrollment"],
                "summary": "Send the student confirmation email (legacy)",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LegacyNotificationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LegacySubmitResponse"}},
                    "502": {"description": "Email provider failed", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "503": {"description": "Email not configured", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/enrollment/notify-admin": {
            "post": {
                "tags": ["Enrollment"],
                "summary": "Send the admin notification email (legacy)",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LegacyNotificationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LegacyNotifyAdminResponse"}},
                    "502": {"description": "Email provider failed", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "503": {"description": "Email not configured", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/enrollment/payment-proof": {
            "post": {
                "tags": ["Enrollment"],
                "summary": "Upload a proof of payment",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "type": "file", "required": true}
                ],
                "responses": {
                    "201": {"description": "Stored", "schema": {"$ref": "#/definitions/PaymentProofUploadResponse"}},
                    "400": {"description": "Missing, oversized or unsupported file", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/enrollment/payment-proof/{token}": {
            "get": {
                "tags": ["Enrollment"],
                "summary": "Download a payment proof through a signed link",
                "parameters": [
                    {"name": "token", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "File contents"},
                    "403": {"description": "Invalid or expired link", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/enrollment/receipt/{id}": {
            "get": {
                "tags": ["Enrollment"],
                "summary": "Download the enrollment receipt",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "receipt", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "PDF receipt"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/admin/login": {
            "post": {
                "tags": ["Admin"],
                "summary": "Staff login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AdminLoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AdminLoginResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/admin/enrollments/{id}": {
            "get": {
                "tags": ["Admin"],
                "summary": "Get an enrollment record",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/EnrollmentRecord"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "EnrollmentDraft": {
            "type": "object",
            "required": ["fullName", "phoneNumber", "email", "program", "deliveryFormat"],
            "properties": {
                "fullName": {"type": "string"},
                "phoneNumber": {"type": "string"},
                "email": {"type": "string", "format": "email"},
                "dateOfBirth": {"type": "string"},
                "city": {"type": "string"},
                "country": {"type": "string"},
                "program": {"type": "string"},
                "deliveryFormat": {"type": "string", "enum": ["in-class", "online"]},
                "hasBusiness": {"type": "string", "enum": ["yes", "no"]},
                "businessName": {"type": "string"},
                "expectations": {"type": "string"},
                "paymentMethod": {"type": "string", "enum": ["bank-transfer", "pos-payment", "online-payment"]},
                "paymentProof": {
                    "type": "object",
                    "properties": {
                        "fileName": {"type": "string"},
                        "reference": {"type": "string"}
                    }
                },
                "paymentReference": {"type": "string"},
                "paymentConfirmed": {"type": "boolean"},
                "agreeToTerms": {"type": "boolean"},
                "agreeToRefundPolicy": {"type": "boolean"},
                "signature": {"type": "string"},
                "signatureDate": {"type": "string"}
            }
        },
        "ProcessEnrollmentRequest": {
            "allOf": [
                {"$ref": "#/definitions/EnrollmentDraft"},
                {
                    "type": "object",
                    "properties": {
                        "registrationFee": {"type": "integer"},
                        "courseFee": {"type": "integer"},
                        "totalAmount": {"type": "integer"},
                        "receiptNumber": {"type": "string", "description": "ignored; the server generates its own"}
                    }
                }
            ]
        },
        "ProcessEnrollmentResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "enrollmentId": {"type": "string", "example": "ENR-01HZX3V6Q8M4R2K9T7N5B1C0DE"},
                "receiptNumber": {"type": "string", "example": "RCP-20240301-AB12CD34"},
                "emailSent": {"type": "boolean"},
                "adminNotified": {"type": "boolean"},
                "totalAmount": {"type": "integer"},
                "message": {"type": "string"}
            }
        },
        "LegacyNotificationRequest": {
            "type": "object",
            "properties": {
                "enrollmentId": {"type": "string"},
                "enrollmentData": {"$ref": "#/definitions/EnrollmentDraft"}
            }
        },
        "LegacySubmitResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "emailId": {"type": "string"},
                "enrollmentId": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "LegacyNotifyAdminResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "PaymentProofUploadResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "reference": {"type": "string"},
                "fileName": {"type": "string"},
                "mimeType": {"type": "string"},
                "sizeBytes": {"type": "integer"}
            }
        },
        "AdminLoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "AdminLoginResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "accessToken": {"type": "string"},
                "tokenType": {"type": "string"},
                "expiresAt": {"type": "string", "format": "date-time"}
            }
        },
        "EnrollmentRecord": {
            "allOf": [
                {"$ref": "#/definitions/EnrollmentDraft"},
                {
                    "type": "object",
                    "properties": {
                        "enrollmentId": {"type": "string"},
                        "receiptNumber": {"type": "string"},
                        "registrationFee": {"type": "integer"},
                        "courseFee": {"type": "integer"},
                        "totalAmount": {"type": "integer"},
                        "status": {"type": "string", "enum": ["pending"]},
                        "submissionDate": {"type": "string", "format": "date-time"},
                        "emailSent": {"type": "boolean"},
                        "studentEmailId": {"type": "string"},
                        "adminEmailId": {"type": "string"},
                        "createdAt": {"type": "string", "format": "date-time"},
                        "updatedAt": {"type": "string", "format": "date-time"}
                    }
                }
            ]
        },
        "ErrorBody": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "error": {"type": "string"},
                "code": {"type": "string"},
                "missingFields": {"type": "array", "items": {"type": "string"}}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
