// Package portal holds the OpenAPI document served under /swagger/. It
// mirrors the swag annotations on the handlers in internal/portal/http;
// regenerate it with go generate in that package after changing them.
package portal

import "github.com/swaggo/swag"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"contact": {
			"name": "AussieBroadWAN Team",
			"url": "https://github.com/aussiebroadwan/tnp"
		},
		"license": {
			"name": "MIT",
			"url": "https://opensource.org/licenses/MIT"
		},
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/livez": {
			"get": {
				"description": "Liveness probe endpoint returning basic service health status, uptime, and version information\nThis endpoint always returns 200 OK if the service is running",
				"produces": [
					"application/json"
				],
				"tags": [
					"Health"
				],
				"summary": "Health Check Endpoint",
				"responses": {
					"200": {
						"description": "status, uptime, version",
						"schema": {
							"$ref": "#/definitions/portalsdk.HealthResponse"
						}
					}
				}
			}
		},
		"/media/{kind}/{filename}": {
			"get": {
				"description": "Stream a stored upload. kind is one of profile, resume, ssc, hsc, diploma.",
				"produces": [
					"application/octet-stream"
				],
				"tags": [
					"Media"
				],
				"summary": "Download Media",
				"parameters": [
					{
						"type": "string",
						"description": "Media kind",
						"name": "kind",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "Object file name",
						"name": "filename",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "file"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/portalsdk.ErrorResponse"
						}
					}
				}
			}
		},
		"/readyz": {
			"get": {
				"description": "Readiness probe checking the database and the object store",
				"produces": [
					"application/json"
				],
				"tags": [
					"Health"
				],
				"summary": "Readiness Check Endpoint",
				"responses": {
					"200": {
						"description": "status, uptime, version, checks",
						"schema": {
							"$ref": "#/definitions/portalsdk.HealthResponse"
						}
					},
					"503": {
						"description": "status, uptime, version, checks - service not ready",
						"schema": {
							"$ref": "#/definitions/portalsdk.HealthResponse"
						}
					}
				}
			}
		},
		"/v1/admin/provision": {
			"post": {
				"description": "Create one account per row with a generated password and email the credentials.\nRows are processed in order; one failing row never stops the rest. Accounts created here must rotate their password.\nThe body is either JSON or text/csv with a header naming identifier (or gr_number) and email.",
				"consumes": [
					"application/json",
					"text/csv"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Admin"
				],
				"summary": "Bulk Provisioning",
				"parameters": [
					{
						"type": "string",
						"description": "Admin token",
						"name": "X-Admin-Token",
						"in": "header",
						"required": true
					},
					{
						"description": "Rows to provision",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/portalsdk.ProvisionRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "per-row outcomes",
						"schema": {
							"$ref": "#/definitions/portalsdk.ProvisionReport"
						}
					},
					"400": {
						"description": "unreadable body",
						"schema": {
							"$ref": "#/definitions/portalsdk.ErrorResponse"
						}
					},
					"401": {
						"description": "invalid admin token",
						"schema": {
							"$ref": "#/definitions/portalsdk.ErrorResponse"
						}
					},
					"404": {
						"description": "provisioning disabled",
						"schema": {
							"$ref": "#/definitions/portalsdk.ErrorResponse"
						}
					},
					"413": {
						"description": "body too large",
						"schema": {
							"$ref": "#/definitions/portalsdk.ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/change-password": {
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"description": "Replace the caller's password after checking the old one. Clears must_rotate. The current token stays valid.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Authentication"
				],
				"summary": "Change Password",
				"parameters": [
					{
						"description": "Old and new password",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/portalsdk.ChangePasswordRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "message",
						"schema": {
							"$ref": "#/definitions/portalsdk.MessageResponse"
						}
					},
					"400": {
						"description": "missing fields or weak password",
						"schema": {
							"$ref": "#/definitions/portalsdk.ErrorResponse"
						}
					},
					"401": {
						"description": "invalid token or old password",
						"schema": {
							"$ref": "#/definitions/portalsdk.ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/hello": {
			"get": {
				"description": "Smoke test route",
				"produces": [
					"application/json"
				],
				"tags": [
					"Health"
				],
				"summary": "Greeting",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/portalsdk.HelloResponse"
						}
					}
				}
			}
		},
		"/v1/login": {
			"post": {
				"description": "Exchange an identifier (GR number) and password for an HS256 access token.\nmust_rotate is true while the password is the one issued by provisioning.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Authentication"
				],
				"summary": "Login",
				"parameters": [
					{
						"description": "Credentials",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/portalsdk.LoginRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "token, must_rotate",
						"schema": {
							"$ref": "#/definitions/portalsdk.LoginResponse"
						}
					},
					"400": {
						"description": "missing fields",
						"schema": {
							"$ref": "#/definitions/portalsdk.ErrorResponse"
						}
					},
					"401": {
						"description": "invalid credentials",
						"schema": {
							"$ref": "#/definitions/portalsdk.ErrorResponse"
						}
					},
					"404": {
						"description": "identifier not found (only when revealing unknown identifiers)",
						"schema": {
							"$ref": "#/definitions/portalsdk.ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/register": {
			"post": {
				"description": "Create a self-service account. The chosen password does not need rotating.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Authentication"
				],
				"summary": "Register",
				"parameters": [
					{
						"description": "Account",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/portalsdk.RegisterRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "message, id",
						"schema": {
							"$ref": "#/definitions/portalsdk.RegisterResponse"
						}
					},
					"400": {
						"description": "missing fields, bad email or short password",
						"schema": {
							"$ref": "#/definitions/portalsdk.ErrorResponse"
						}
					},
					"409": {
						"description": "identifier already registered",
						"schema": {
							"$ref": "#/definitions/portalsdk.ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/student/profile": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"description": "Return the caller's profile with public URLs for every stored file.",
				"produces": [
					"application/json"
				],
				"tags": [
					"Student"
				],
				"summary": "Get Profile",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/portalsdk.Profile"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/portalsdk.ErrorResponse"
						}
					},
					"404": {
						"description": "no profile yet",
						"schema": {
							"$ref": "#/definitions/portalsdk.ErrorResponse"
						}
					}
				}
			},
			"put": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"description": "Edit names, email and contact numbers. first_name, last_name and email are required.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Student"
				],
				"summary": "Update Contact Details",
				"parameters": [
					{
						"description": "Contact fields",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/portalsdk.ContactUpdateRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/portalsdk.MessageResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/portalsdk.ValidationErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/portalsdk.ErrorResponse"
						}
					},
					"404": {
						"description": "no profile yet",
						"schema": {
							"$ref": "#/definitions/portalsdk.ErrorResponse"
						}
					}
				}
			},
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"description": "Submit the full placement profile once, as multipart form data. Text fields use their\nsnake_case names (first_name, ssc_percentage, sem1_cgpa ...). List fields take JSON.\nOptional files: profile_photo, resume (PDF), ssc_marksheet, hsc_marksheet, diploma_marksheet (PDF or image).",
				"consumes": [
					"multipart/form-data"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Student"
				],
				"summary": "Create Profile",
				"responses": {
					"201": {
						"description": "success, message",
						"schema": {
							"$ref": "#/definitions/portalsdk.ProfileCreatedResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/portalsdk.ValidationErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/portalsdk.ErrorResponse"
						}
					},
					"409": {
						"description": "profile already exists",
						"schema": {
							"$ref": "#/definitions/portalsdk.ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/student/upload": {
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"description": "Store a profile picture (jpeg, png, webp or gif) and point the account at it.",
				"consumes": [
					"multipart/form-data"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Student"
				],
				"summary": "Upload Profile Photo",
				"parameters": [
					{
						"type": "file",
						"description": "Profile picture",
						"name": "profile",
						"in": "formData",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "message, image_url",
						"schema": {
							"$ref": "#/definitions/portalsdk.UploadResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/portalsdk.ValidationErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/portalsdk.ErrorResponse"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"portalsdk.ChangePasswordRequest": {
			"type": "object",
			"properties": {
				"old_password": {
					"type": "string"
				},
				"new_password": {
					"type": "string"
				}
			}
		},
		"portalsdk.ContactUpdateRequest": {
			"type": "object",
			"properties": {
				"first_name": {
					"type": "string"
				},
				"middle_name": {
					"type": "string"
				},
				"last_name": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"contact_number_primary": {
					"type": "string"
				},
				"contact_number_alternate": {
					"type": "string"
				}
			}
		},
		"portalsdk.ErrorResponse": {
			"type": "object",
			"properties": {
				"error": {
					"type": "string"
				},
				"error_description": {
					"type": "string"
				}
			}
		},
		"portalsdk.HealthChecks": {
			"type": "object",
			"properties": {
				"database": {
					"type": "string"
				},
				"blobs": {
					"type": "string"
				}
			}
		},
		"portalsdk.HealthResponse": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string"
				},
				"uptime": {
					"type": "string"
				},
				"version": {
					"type": "string"
				},
				"checks": {
					"$ref": "#/definitions/portalsdk.HealthChecks"
				}
			}
		},
		"portalsdk.HelloResponse": {
			"type": "object",
			"properties": {
				"message": {
					"type": "string"
				}
			}
		},
		"portalsdk.LoginRequest": {
			"type": "object",
			"properties": {
				"identifier": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			}
		},
		"portalsdk.LoginResponse": {
			"type": "object",
			"properties": {
				"token": {
					"type": "string"
				},
				"must_rotate": {
					"type": "boolean"
				},
				"message": {
					"type": "string"
				}
			}
		},
		"portalsdk.MessageResponse": {
			"type": "object",
			"properties": {
				"message": {
					"type": "string"
				}
			}
		},
		"portalsdk.Profile": {
			"type": "object",
			"properties": {
				"identifier": {
					"type": "string"
				},
				"first_name": {
					"type": "string"
				},
				"middle_name": {
					"type": "string"
				},
				"last_name": {
					"type": "string"
				},
				"gender": {
					"type": "string"
				},
				"date_of_birth": {
					"type": "string"
				},
				"contact_number_primary": {
					"type": "string"
				},
				"contact_number_alternate": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"aadhaar_number": {
					"type": "string"
				},
				"pan_number": {
					"type": "string"
				},
				"student_id": {
					"type": "string"
				},
				"current_year": {
					"type": "integer"
				},
				"department": {
					"type": "string"
				},
				"year_of_admission": {
					"type": "integer"
				},
				"expected_graduation_year": {
					"type": "integer"
				},
				"ssc": {
					"$ref": "#/definitions/portalsdk.Schooling"
				},
				"hsc": {
					"$ref": "#/definitions/portalsdk.Schooling"
				},
				"diploma": {
					"$ref": "#/definitions/portalsdk.Schooling"
				},
				"semester_cgpa": {
					"description": "SemesterCGPA has one slot per semester, null when not reported.",
					"type": "array",
					"items": {
						"type": "number"
					}
				},
				"programming_languages": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"soft_skills": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"certifications": {
					"type": "array",
					"items": {
						"type": "object"
					}
				},
				"projects": {
					"type": "array",
					"items": {
						"type": "object"
					}
				},
				"achievements": {
					"type": "array",
					"items": {
						"type": "object"
					}
				},
				"internships": {
					"type": "array",
					"items": {
						"type": "object"
					}
				},
				"profile_photo_url": {
					"type": "string"
				},
				"resume_url": {
					"type": "string"
				},
				"created_at": {
					"type": "integer"
				},
				"updated_at": {
					"type": "integer"
				}
			}
		},
		"portalsdk.ProfileCreatedResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean"
				},
				"message": {
					"type": "string"
				}
			}
		},
		"portalsdk.ProvisionReport": {
			"type": "object",
			"properties": {
				"total": {
					"type": "integer"
				},
				"succeeded": {
					"type": "integer"
				},
				"skipped": {
					"type": "integer"
				},
				"failed": {
					"type": "integer"
				},
				"rows": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/portalsdk.ProvisionRowResult"
					}
				}
			}
		},
		"portalsdk.ProvisionRequest": {
			"type": "object",
			"properties": {
				"rows": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/portalsdk.ProvisionRow"
					}
				}
			}
		},
		"portalsdk.ProvisionRow": {
			"type": "object",
			"properties": {
				"identifier": {
					"type": "string"
				},
				"email": {
					"type": "string"
				}
			}
		},
		"portalsdk.ProvisionRowResult": {
			"type": "object",
			"properties": {
				"row": {
					"type": "integer"
				},
				"identifier": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"status": {
					"type": "string"
				},
				"reason": {
					"type": "string"
				}
			}
		},
		"portalsdk.RegisterRequest": {
			"type": "object",
			"properties": {
				"identifier": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			}
		},
		"portalsdk.RegisterResponse": {
			"type": "object",
			"properties": {
				"message": {
					"type": "string"
				},
				"id": {
					"type": "integer"
				}
			}
		},
		"portalsdk.Schooling": {
			"type": "object",
			"properties": {
				"percentage": {
					"type": "number"
				},
				"year": {
					"type": "integer"
				},
				"marksheet_url": {
					"type": "string"
				}
			}
		},
		"portalsdk.UploadResponse": {
			"type": "object",
			"properties": {
				"message": {
					"type": "string"
				},
				"image_url": {
					"type": "string"
				}
			}
		},
		"portalsdk.ValidationErrorResponse": {
			"type": "object",
			"properties": {
				"code": {
					"description": "Code is always \"validation_error\".",
					"type": "string"
				},
				"message": {
					"type": "string"
				},
				"details": {
					"type": "object",
					"additionalProperties": {
						"type": "string"
					}
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"description": "JWT access token. Format: \"Bearer {token}\".",
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "TnP Placement Portal API",
	Description:      "Backend for the Training and Placement portal: student accounts, bulk provisioning,\nplacement profiles and their uploaded documents.\n\nAccess tokens are HS256 signed JWTs issued by /v1/login.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
