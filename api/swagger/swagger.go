package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Pulse API",
        "description": "Attendance outcome engine and academic dashboard",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {
            "name": "Subjects",
            "description": "Per-subject attendance standing"
        },
        {
            "name": "Outcomes",
            "description": "Engine calculations on supplied inputs"
        },
        {
            "name": "Performance",
            "description": "Term history"
        },
        {
            "name": "Records",
            "description": "Assignments, remarks and topics"
        },
        {
            "name": "Dashboard",
            "description": "Landing summary"
        },
        {
            "name": "Advisor",
            "description": "Generated guidance with fallbacks"
        },
        {
            "name": "Reports",
            "description": "CSV and PDF exports"
        }
    ],
    "paths": {
        "/student": {
            "get": {
                "tags": [
                    "Records"
                ],
                "summary": "Student profile",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/subjects": {
            "get": {
                "tags": [
                    "Subjects"
                ],
                "summary": "List subject standings",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/subjects/{id}": {
            "get": {
                "tags": [
                    "Subjects"
                ],
                "summary": "Subject standing",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true
                    }
                ]
            }
        },
        "/subjects/{id}/projections": {
            "get": {
                "tags": [
                    "Subjects"
                ],
                "summary": "Projected attendance after missed sessions",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true
                    },
                    {
                        "in": "query",
                        "name": "missed",
                        "type": "integer",
                        "required": false,
                        "description": "0-10; omitted returns the full table"
                    }
                ]
            }
        },
        "/attendance/overall": {
            "get": {
                "tags": [
                    "Subjects"
                ],
                "summary": "Aggregate attendance across subjects",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/outcomes/classify": {
            "post": {
                "tags": [
                    "Outcomes"
                ],
                "summary": "Classify an attendance percentage",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ClassifyRequest"
                        }
                    }
                ]
            }
        },
        "/outcomes/predict": {
            "post": {
                "tags": [
                    "Outcomes"
                ],
                "summary": "Project attendance after missed sessions",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/PredictRequest"
                        }
                    }
                ]
            }
        },
        "/outcomes/goal": {
            "post": {
                "tags": [
                    "Outcomes"
                ],
                "summary": "Required average for a cumulative target",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/GoalRequest"
                        }
                    }
                ]
            }
        },
        "/outcomes/compare": {
            "post": {
                "tags": [
                    "Outcomes"
                ],
                "summary": "Compare a score with its cohort average",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CompareRequest"
                        }
                    }
                ]
            }
        },
        "/performance": {
            "get": {
                "tags": [
                    "Performance"
                ],
                "summary": "Term history with headline figures",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/assignments": {
            "get": {
                "tags": [
                    "Records"
                ],
                "summary": "List assignments",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "query",
                        "name": "status",
                        "type": "string",
                        "required": false,
                        "description": "pending or submitted"
                    },
                    {
                        "in": "query",
                        "name": "subjectId",
                        "type": "string",
                        "required": false
                    }
                ]
            }
        },
        "/remarks": {
            "get": {
                "tags": [
                    "Records"
                ],
                "summary": "List professor remarks",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "query",
                        "name": "type",
                        "type": "string",
                        "required": false,
                        "description": "positive, warning or improvement"
                    },
                    {
                        "in": "query",
                        "name": "subjectId",
                        "type": "string",
                        "required": false
                    }
                ]
            }
        },
        "/topics": {
            "get": {
                "tags": [
                    "Records"
                ],
                "summary": "List syllabus topics",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "query",
                        "name": "status",
                        "type": "string",
                        "required": false,
                        "description": "understood or needs-revision"
                    },
                    {
                        "in": "query",
                        "name": "subjectId",
                        "type": "string",
                        "required": false
                    }
                ]
            }
        },
        "/dashboard": {
            "get": {
                "tags": [
                    "Dashboard"
                ],
                "summary": "Dashboard summary",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/advisor/analysis": {
            "post": {
                "tags": [
                    "Advisor"
                ],
                "summary": "Priority summary of the current standing",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/advisor/advice": {
            "post": {
                "tags": [
                    "Advisor"
                ],
                "summary": "Recommendation for a dashboard context",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "503": {
                        "description": "Advisor unavailable",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AdviceRequest"
                        }
                    }
                ]
            }
        },
        "/advisor/attend-decision": {
            "post": {
                "tags": [
                    "Advisor"
                ],
                "summary": "Should the next session be attended",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AttendDecisionRequest"
                        }
                    }
                ]
            }
        },
        "/advisor/chat/sessions": {
            "post": {
                "tags": [
                    "Advisor"
                ],
                "summary": "Open a mentor chat session",
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/advisor/chat/sessions/{id}": {
            "get": {
                "tags": [
                    "Advisor"
                ],
                "summary": "Chat session transcript",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true
                    }
                ]
            }
        },
        "/advisor/chat/sessions/{id}/messages": {
            "post": {
                "tags": [
                    "Advisor"
                ],
                "summary": "Send a message to a chat session",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true
                    },
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ChatMessageRequest"
                        }
                    }
                ]
            }
        },
        "/reports/standing": {
            "get": {
                "tags": [
                    "Reports"
                ],
                "summary": "Attendance standing report",
                "responses": {
                    "200": {
                        "description": "Report file",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "query",
                        "name": "format",
                        "type": "string",
                        "required": false,
                        "description": "csv (default) or pdf"
                    }
                ],
                "produces": [
                    "text/csv",
                    "application/pdf"
                ]
            }
        },
        "/reports/standing/jobs": {
            "post": {
                "tags": [
                    "Reports"
                ],
                "summary": "Queue a standing report",
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": false,
                        "schema": {
                            "$ref": "#/definitions/ReportJobRequest"
                        }
                    }
                ],
                "responses": {
                    "202": {
                        "description": "Job queued",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "503": {
                        "description": "Queue full",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/reports/jobs/{id}": {
            "get": {
                "tags": [
                    "Reports"
                ],
                "summary": "Report job status",
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Job ID"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ReportJob"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/reports/download/{token}": {
            "get": {
                "tags": [
                    "Reports"
                ],
                "summary": "Download a finished report",
                "parameters": [
                    {
                        "in": "path",
                        "name": "token",
                        "type": "string",
                        "required": true,
                        "description": "Signed download token"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Report file",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "403": {
                        "description": "Invalid or expired token",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "produces": [
                    "text/csv",
                    "application/pdf"
                ]
            }
        }
    },
    "definitions": {
        "ReportJobRequest": {
            "type": "object",
            "properties": {
                "format": {
                    "type": "string",
                    "enum": [
                        "csv",
                        "pdf"
                    ]
                }
            }
        },
        "ReportJob": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "format": {
                    "type": "string"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "QUEUED",
                        "PROCESSING",
                        "FINISHED",
                        "FAILED"
                    ]
                },
                "attempts": {
                    "type": "integer"
                },
                "createdAt": {
                    "type": "string",
                    "format": "date-time"
                },
                "finishedAt": {
                    "type": "string",
                    "format": "date-time"
                },
                "filename": {
                    "type": "string"
                },
                "downloadUrl": {
                    "type": "string"
                },
                "expiresAt": {
                    "type": "string",
                    "format": "date-time"
                },
                "error": {
                    "type": "string"
                }
            }
        },
        "ClassifyRequest": {
            "type": "object",
            "required": [
                "ratio"
            ],
            "properties": {
                "ratio": {
                    "type": "number"
                }
            }
        },
        "PredictRequest": {
            "type": "object",
            "required": [
                "attended",
                "held"
            ],
            "properties": {
                "attended": {
                    "type": "integer"
                },
                "held": {
                    "type": "integer"
                },
                "missed": {
                    "type": "integer"
                }
            }
        },
        "GoalRequest": {
            "type": "object",
            "required": [
                "target",
                "remaining"
            ],
            "properties": {
                "current": {
                    "type": "number"
                },
                "completed": {
                    "type": "integer"
                },
                "target": {
                    "type": "number"
                },
                "remaining": {
                    "type": "integer"
                }
            }
        },
        "CompareRequest": {
            "type": "object",
            "required": [
                "score",
                "cohortAverage"
            ],
            "properties": {
                "score": {
                    "type": "number"
                },
                "cohortAverage": {
                    "type": "number"
                }
            }
        },
        "AdviceRequest": {
            "type": "object",
            "properties": {
                "context": {
                    "type": "string"
                }
            }
        },
        "AttendDecisionRequest": {
            "type": "object",
            "properties": {
                "subjectId": {
                    "type": "string"
                },
                "subject": {
                    "type": "string"
                },
                "attendance": {
                    "type": "number"
                },
                "importance": {
                    "type": "string",
                    "enum": [
                        "Low",
                        "Medium",
                        "High"
                    ]
                }
            }
        },
        "ChatMessageRequest": {
            "type": "object",
            "required": [
                "text"
            ],
            "properties": {
                "text": {
                    "type": "string"
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "meta": {
                    "type": "object"
                }
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
