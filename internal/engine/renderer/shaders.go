package renderer

// Normal material: the view-space normal mapped from [-1,1] to [0,1].
const normalVertexShader = `#version 410 core

layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;

uniform mat4 uProjection;
uniform mat4 uModelView;
uniform mat3 uNormalMatrix;

out vec3 vNormal;

void main() {
    vNormal = normalize(uNormalMatrix * aNormal);
    gl_Position = uProjection * uModelView * vec4(aPosition, 1.0);
}
`

const normalFragmentShader = `#version 410 core

in vec3 vNormal;
out vec4 FragColor;

void main() {
    FragColor = vec4(normalize(vNormal) * 0.5 + 0.5, 1.0);
}
`
